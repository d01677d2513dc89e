package orders

import (
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
	"github.com/jhoicas/ServiCampo-api/internal/domain/repository"
	"github.com/jhoicas/ServiCampo-api/internal/domain/schedule"
)

// Config parámetros de negocio del caso de uso.
type Config struct {
	// CheckInRadiusMeters radio de la geocerca de check-in. 50 m por defecto.
	CheckInRadiusMeters float64
}

// DefaultCheckInRadiusMeters umbral de admisión del check-in.
const DefaultCheckInRadiusMeters = 50.0

// UseCase gestor del agregado de órdenes de servicio: hidratación, creación y
// actualización transaccionales, mutadores de ejecución en campo y check-in
// geocercado. Toda mutación devuelve el agregado re-hidratado completo, nunca
// la fila hija suelta.
type UseCase struct {
	txRunner TxRunner

	orderRepo      repository.ServiceOrderRepository
	assignmentRepo repository.AssignmentRepository
	timeRepo       repository.TimeEntryRepository
	materialRepo   repository.MaterialUsageRepository
	photoRepo      repository.PhotoRepository
	signatureRepo  repository.SignatureRepository

	accountRepo  repository.AccountRepository
	propertyRepo repository.PropertyRepository
	contactRepo  repository.ContactRepository
	employeeRepo repository.EmployeeRepository
	catalogRepo  repository.MaterialRepository

	cfg Config
}

// NewUseCase construye el gestor del agregado.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.ServiceOrderRepository,
	assignmentRepo repository.AssignmentRepository,
	timeRepo repository.TimeEntryRepository,
	materialRepo repository.MaterialUsageRepository,
	photoRepo repository.PhotoRepository,
	signatureRepo repository.SignatureRepository,
	accountRepo repository.AccountRepository,
	propertyRepo repository.PropertyRepository,
	contactRepo repository.ContactRepository,
	employeeRepo repository.EmployeeRepository,
	catalogRepo repository.MaterialRepository,
	cfg Config,
) *UseCase {
	if cfg.CheckInRadiusMeters <= 0 {
		cfg.CheckInRadiusMeters = DefaultCheckInRadiusMeters
	}
	return &UseCase{
		txRunner:       txRunner,
		orderRepo:      orderRepo,
		assignmentRepo: assignmentRepo,
		timeRepo:       timeRepo,
		materialRepo:   materialRepo,
		photoRepo:      photoRepo,
		signatureRepo:  signatureRepo,
		accountRepo:    accountRepo,
		propertyRepo:   propertyRepo,
		contactRepo:    contactRepo,
		employeeRepo:   employeeRepo,
		catalogRepo:    catalogRepo,
		cfg:            cfg,
	}
}

// Get hidrata la orden completa: padre decorado, asignaciones, registros de
// tiempo (derivando duraciones faltantes en lectura, sin mutar el almacenamiento),
// materiales, fotos y firma, más el total de minutos registrados.
// Devuelve nil, nil si la orden no existe.
func (uc *UseCase) Get(id string) (*dto.OrderResponse, error) {
	agg, err := uc.hydrate(id)
	if err != nil || agg == nil {
		return nil, err
	}
	return toOrderResponse(agg), nil
}

// List lista órdenes hidratadas. from/to/status se filtran en SQL; employeeId
// y onlyActive son post-filtros sobre el resultado.
func (uc *UseCase) List(q dto.ListOrdersQuery) (*dto.OrderListResponse, error) {
	filter := repository.OrderFilter{}
	if q.From != "" {
		from, err := parseDate(q.From)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.From = from
	}
	if q.To != "" {
		to, err := parseDate(q.To)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.To = to
	}
	if q.Status != "" {
		for _, s := range splitCSV(q.Status) {
			if !entity.KnownOrderStatus(s) {
				return nil, domain.ErrInvalidInput
			}
			filter.Statuses = append(filter.Statuses, s)
		}
	}

	parents, err := uc.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}

	var assigned map[string]struct{}
	if q.EmployeeID != "" {
		assigned, err = uc.assignmentRepo.OrderIDsByEmployee(q.EmployeeID)
		if err != nil {
			return nil, err
		}
	}

	out := &dto.OrderListResponse{Items: make([]dto.OrderResponse, 0, len(parents))}
	for _, parent := range parents {
		if q.OnlyActive && (parent.Status == entity.OrderStatusCompleted || parent.Status == entity.OrderStatusCancelled) {
			continue
		}
		if assigned != nil {
			if _, ok := assigned[parent.ID]; !ok {
				continue
			}
		}
		agg, err := uc.hydrateChildren(parent)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *toOrderResponse(agg))
	}
	out.Total = len(out.Items)
	return out, nil
}

// Delete elimina la orden; asignaciones, tiempos, materiales, fotos y firma
// caen por cascade. Devuelve false si la orden no existía.
func (uc *UseCase) Delete(id string) (bool, error) {
	return uc.orderRepo.Delete(id)
}

// hydrate arma el agregado completo desde el almacenamiento, o nil si el padre no existe.
func (uc *UseCase) hydrate(id string) (*entity.Aggregate, error) {
	parent, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	return uc.hydrateChildren(parent)
}

func (uc *UseCase) hydrateChildren(parent *entity.ServiceOrder) (*entity.Aggregate, error) {
	assignments, err := uc.assignmentRepo.ListByOrder(parent.ID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.timeRepo.ListByOrder(parent.ID)
	if err != nil {
		return nil, err
	}
	materials, err := uc.materialRepo.ListByOrder(parent.ID)
	if err != nil {
		return nil, err
	}
	photos, err := uc.photoRepo.ListByOrder(parent.ID)
	if err != nil {
		return nil, err
	}
	signature, err := uc.signatureRepo.GetByOrder(parent.ID)
	if err != nil {
		return nil, err
	}

	total := 0
	for i := range entries {
		// Filas antiguas sin duración guardada: derivar en lectura.
		if entries[i].DurationMinutes == nil {
			entries[i].DurationMinutes = schedule.DeriveDurationMinutes(entries[i].StartTime, entries[i].EndTime)
		}
		if entries[i].DurationMinutes != nil {
			total += *entries[i].DurationMinutes
		}
	}

	return &entity.Aggregate{
		Order:               *parent,
		Assignments:         assignments,
		TimeEntries:         entries,
		Materials:           materials,
		Photos:              photos,
		Signature:           signature,
		TotalTrackedMinutes: total,
	}, nil
}

// ── Helpers de fechas y mapeo ────────────────────────────────────────────────

func parseDate(s string) (*time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	return parseDate(*s)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			part := trimSpaces(s[start:i])
			if part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}

func trimSpaces(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

func toOrderResponse(agg *entity.Aggregate) *dto.OrderResponse {
	o := agg.Order
	resp := &dto.OrderResponse{
		ID:                 o.ID,
		Title:              o.Title,
		Description:        o.Description,
		Notes:              o.Notes,
		AccountID:          o.AccountID,
		AccountName:        o.AccountName,
		PropertyID:         o.PropertyID,
		PropertyName:       o.PropertyName,
		PropertyAddress:    o.PropertyAddress,
		RecipientID:        o.RecipientID,
		RecipientName:      o.RecipientName,
		InvoiceAccountID:   o.InvoiceAccountID,
		InvoiceAccountName: o.InvoiceAccountName,
		Status:             o.Status,
		Priority:           o.Priority,
		PlannedDate:        formatDate(o.PlannedDate),
		PlannedStart:       o.PlannedStart,
		PlannedEnd:         o.PlannedEnd,
		ActualStart:        o.ActualStart,
		ActualEnd:          o.ActualEnd,
		EstimatedMinutes:   o.EstimatedMinutes,
		CalendarEventID:    o.CalendarEventID,
		CalendarRef:        o.CalendarRef,
		Assignments:        make([]dto.AssignmentResponse, 0, len(agg.Assignments)),
		TimeEntries:        make([]dto.TimeEntryResponse, 0, len(agg.TimeEntries)),
		Materials:          make([]dto.MaterialUsageResponse, 0, len(agg.Materials)),
		Photos:             make([]dto.PhotoResponse, 0, len(agg.Photos)),
		TotalTrackedMinutes: agg.TotalTrackedMinutes,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	for _, a := range agg.Assignments {
		resp.Assignments = append(resp.Assignments, dto.AssignmentResponse{
			ID:             a.ID,
			EmployeeID:     a.EmployeeID,
			EmployeeName:   a.EmployeeName,
			ScheduledDate:  formatDate(a.ScheduledDate),
			ScheduledStart: a.ScheduledStart,
			ScheduledEnd:   a.ScheduledEnd,
			IsPrimary:      a.IsPrimary,
		})
	}
	for _, e := range agg.TimeEntries {
		resp.TimeEntries = append(resp.TimeEntries, dto.TimeEntryResponse{
			ID:              e.ID,
			EmployeeID:      e.EmployeeID,
			EmployeeName:    e.EmployeeName,
			StartTime:       e.StartTime,
			EndTime:         e.EndTime,
			DurationMinutes: e.DurationMinutes,
			Source:          e.Source,
			StartLat:        e.StartLat,
			StartLng:        e.StartLng,
			EndLat:          e.EndLat,
			EndLng:          e.EndLng,
			DistanceKM:      e.DistanceKM,
			Notes:           e.Notes,
		})
	}
	for _, m := range agg.Materials {
		resp.Materials = append(resp.Materials, dto.MaterialUsageResponse{
			ID:           m.ID,
			MaterialID:   m.MaterialID,
			EmployeeID:   m.EmployeeID,
			EmployeeName: m.EmployeeName,
			Name:         m.Name,
			Quantity:     m.Quantity,
			Unit:         m.Unit,
			UnitPrice:    m.UnitPrice,
			Notes:        m.Notes,
			CreatedAt:    m.CreatedAt,
		})
	}
	for _, p := range agg.Photos {
		resp.Photos = append(resp.Photos, dto.PhotoResponse{
			ID:           p.ID,
			EmployeeID:   p.EmployeeID,
			EmployeeName: p.EmployeeName,
			Data:         p.Data,
			Caption:      p.Caption,
			CreatedAt:    p.CreatedAt,
		})
	}
	if agg.Signature != nil {
		resp.Signature = &dto.SignatureResponse{
			ID:         agg.Signature.ID,
			SignerName: agg.Signature.SignerName,
			SignedAt:   agg.Signature.SignedAt,
			Data:       agg.Signature.Data,
		}
	}
	return resp
}
