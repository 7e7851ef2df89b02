// Package importer conduce la importación de planillas de pedidos (upload → mapping → preview →
// success) y la carga de liquidaciones y extractos de TikTok Shop.
package importer

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/pkg/logger"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
	"github.com/shopspring/decimal"
)

const previewSample = 20

// Deps dependencias del caso de uso.
type Deps struct {
	Orders   repository.OrderRepository
	Tx       ports.TxRunner
	Parser   ports.SheetParser
	Sessions *SessionStore
	Location *time.Location
	Log      *logger.Logger
}

// UseCase importaciones del usuario.
type UseCase struct {
	d   Deps
	log *logger.Logger
	now func() time.Time
}

// New construye el caso de uso.
func New(d Deps) *UseCase {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Sessions == nil {
		d.Sessions = NewSessionStore(0)
	}
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{d: d, log: log.Named("importer"), now: time.Now}
}

// Upload lee la planilla y abre una sesión en estado upload con el mapeo sugerido.
func (uc *UseCase) Upload(ctx context.Context, userID, filename, marketplace string, r io.Reader) (*dto.ImportSessionResponse, error) {
	marketplace = strings.ToLower(strings.TrimSpace(marketplace))
	if marketplace == "" {
		marketplace = entity.MarketplaceShopee
	}
	if !entity.ValidMarketplace(marketplace) {
		return nil, &numeric.ValidationError{Field: "marketplace", Message: "marketplace desconocido"}
	}
	table, err := uc.d.Parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("importer: leer planilla: %w", err)
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: la planilla no tiene filas", domain.ErrInvalidInput)
	}

	sess := &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		FileName:    filename,
		Marketplace: marketplace,
		State:       StateUpload,
		Headers:     table.Headers,
		Rows:        table.Rows,
		Suggested:   SuggestMapping(table.Headers),
		Costs:       make(map[finance.CostKey]decimal.Decimal),
		CreatedAt:   uc.now(),
	}
	uc.d.Sessions.Put(sess)
	uc.log.Info().Str("user_id", userID).Str("session_id", sess.ID).Str("file", filename).Int("rows", len(table.Rows)).Msg("planilla recibida")
	return view(sess), nil
}

// Get devuelve el estado de la sesión.
func (uc *UseCase) Get(_ context.Context, userID, id string) (*dto.ImportSessionResponse, error) {
	sess, err := uc.d.Sessions.Get(userID, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return view(sess), nil
}

// ApplyMapping fija el mapeo campo -> encabezado. Mapeo vacío aplica la sugerencia.
// Volver a mapear descarta la vista previa anterior.
func (uc *UseCase) ApplyMapping(_ context.Context, userID, id string, raw map[string]string) (*dto.ImportSessionResponse, error) {
	sess, err := uc.d.Sessions.Get(userID, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !CanTransition(sess.State, StateMapping) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, sess.State, StateMapping)
	}
	if len(raw) == 0 {
		raw = make(map[string]string, len(sess.Suggested))
		for f, h := range sess.Suggested {
			raw[string(f)] = h
		}
	}
	m, err := ValidateMapping(raw, sess.Headers, RequiredFields, fieldsOf(orderAliases))
	if err != nil {
		return nil, err
	}
	sess.Mapping = m
	sess.Orders = nil
	sess.Missing = nil
	_ = sess.advance(StateMapping)
	return view(sess), nil
}

// ResolveCosts registra costos para productos sin costo conocido. No cambia el estado; la
// siguiente vista previa los usa.
func (uc *UseCase) ResolveCosts(_ context.Context, userID, id string, costs []dto.CostUpdateRequest) (*dto.ImportSessionResponse, error) {
	sess, err := uc.d.Sessions.Get(userID, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.State != StateMapping && sess.State != StatePreview {
		return nil, fmt.Errorf("%w: costos solo se informan antes de confirmar", domain.ErrInvalidTransition)
	}
	parsed := make(map[finance.CostKey]decimal.Decimal, len(costs))
	for i, c := range costs {
		k := finance.KeyOf(c.SKU, c.ProductName)
		if k.IsZero() {
			return nil, &numeric.ValidationError{Field: fmt.Sprintf("costs[%d]", i), Message: "se requiere SKU o nombre del producto"}
		}
		v, err := numeric.Parse(c.UnitCost.String(), numeric.BatchCost().WithField(fmt.Sprintf("costs[%d].unit_cost", i)))
		if err != nil {
			return nil, err
		}
		parsed[k] = v
	}
	for k, v := range parsed {
		sess.Costs[k] = v
	}
	remaining := sess.Missing[:0:0]
	for _, k := range sess.Missing {
		if _, ok := sess.Costs[k]; !ok {
			remaining = append(remaining, k)
		}
	}
	sess.Missing = remaining
	return view(sess), nil
}

// Preview arma los pedidos con el mapeo vigente y resuelve sus costos. Si quedan productos sin
// costo devuelve *MissingCostsError y la sesión permanece en mapping.
func (uc *UseCase) Preview(ctx context.Context, userID, id string) (*dto.ImportPreviewResponse, error) {
	sess, err := uc.d.Sessions.Get(userID, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !CanTransition(sess.State, StatePreview) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, sess.State, StatePreview)
	}
	orders, skipped := uc.buildOrders(sess)
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: ninguna fila tiene pedido y producto", domain.ErrInvalidInput)
	}
	known, err := uc.knownCosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	missing := make(map[finance.CostKey]bool)
	for i := range orders {
		o := &orders[i]
		if o.UnitCost.IsPositive() || !o.Quantity.IsPositive() {
			continue
		}
		k := finance.KeyOf(o.SKU, o.ProductName)
		if c, ok := sess.Costs[k]; ok {
			o.UnitCost = c
		} else if c, ok := known[k]; ok {
			o.UnitCost = c
		} else {
			missing[k] = true
		}
	}

	sess.Orders = orders
	sess.Skipped = skipped
	sess.Missing = sortedKeys(missing)
	if len(sess.Missing) > 0 {
		sess.State = StateMapping
		return nil, &MissingCostsError{Keys: append([]finance.CostKey(nil), sess.Missing...)}
	}
	_ = sess.advance(StatePreview)

	out := &dto.ImportPreviewResponse{
		Orders:        len(orders),
		TotalQuantity: decimal.Zero,
		TotalRevenue:  decimal.Zero,
		Sample:        make([]dto.OrderResponse, 0, previewSample),
	}
	out.From, out.Until = span(orders)
	for i := range orders {
		out.TotalQuantity = out.TotalQuantity.Add(orders[i].Quantity)
		out.TotalRevenue = out.TotalRevenue.Add(orders[i].GrossRevenue)
		if i < previewSample {
			out.Sample = append(out.Sample, orderResponse(&orders[i]))
		}
	}
	out.Session = *view(sess)
	return out, nil
}

// Commit persiste los pedidos de la vista previa en una transacción. En modo replace borra
// antes los pedidos del mismo marketplace dentro del rango de fechas de la planilla.
func (uc *UseCase) Commit(ctx context.Context, userID, id, mode string) (*dto.ImportCommitResponse, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ModeAppend
	}
	if mode != ModeAppend && mode != ModeReplace {
		return nil, &numeric.ValidationError{Field: "mode", Message: "debe ser 'append' o 'replace'"}
	}
	sess, err := uc.d.Sessions.Get(userID, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !CanTransition(sess.State, StateSuccess) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, sess.State, StateSuccess)
	}

	now := uc.now()
	orders := make([]entity.Order, len(sess.Orders))
	for i, o := range sess.Orders {
		o.ID = uuid.New().String()
		o.CreatedAt = now
		o.UpdatedAt = now
		orders[i] = o
	}

	res := &dto.ImportCommitResponse{Mode: mode, Inserted: len(orders)}
	err = uc.d.Tx.Run(ctx, func(r ports.TxRepos) error {
		if mode == ModeReplace {
			from, until := span(orders)
			n, err := r.Orders.DeleteByFilter(ctx, userID, repository.OrderFilter{From: &from, Until: &until, Marketplace: sess.Marketplace})
			if err != nil {
				return fmt.Errorf("borrar pedidos previos: %w", err)
			}
			res.Deleted = n
		}
		return r.Orders.InsertBatch(ctx, orders)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Str("session_id", id).Msg("importación no confirmada")
		return nil, fmt.Errorf("importer: confirmar: %w", err)
	}
	_ = sess.advance(StateSuccess)
	sess.Result = res
	sess.Rows = nil
	uc.log.Info().Str("user_id", userID).Str("session_id", id).Str("mode", mode).
		Int("inserted", res.Inserted).Int64("deleted", res.Deleted).Msg("importación confirmada")
	return res, nil
}

// Janitor elimina sesiones vencidas cada every hasta que ctx se cancele.
func (uc *UseCase) Janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := uc.d.Sessions.Sweep(); n > 0 {
				uc.log.Debug().Int("sessions", n).Msg("sesiones de importación vencidas eliminadas")
			}
		}
	}
}

func (uc *UseCase) buildOrders(sess *Session) ([]entity.Order, int) {
	uploaded := sess.CreatedAt.In(uc.d.Location)
	orders := make([]entity.Order, 0, len(sess.Rows))
	skipped := 0
	for _, row := range sess.Rows {
		get := cell(row, sess.Mapping)
		orderID, name := get(FieldOrderID), get(FieldProductName)
		if orderID == "" || name == "" {
			skipped++
			continue
		}
		orderedAt, ok := parseTime(get(FieldOrderedAt), uc.d.Location)
		if !ok {
			orderedAt = uploaded
		}
		orders = append(orders, entity.Order{
			UserID:         sess.UserID,
			OrderID:        orderID,
			SKU:            finance.NormalizeSKU(get(FieldSKU)),
			ProductName:    name,
			VariationName:  get(FieldVariation),
			Quantity:       numeric.Safe(get(FieldQuantity), numeric.Quantity()),
			GrossRevenue:   numeric.SafeLoose(get(FieldRevenue)),
			PlatformRebate: numeric.SafeLoose(get(FieldRebate)).Abs(),
			UnitCost:       numeric.Safe(get(FieldUnitCost), numeric.Currency()),
			OrderedAt:      orderedAt,
			Marketplace:    sess.Marketplace,
		})
	}
	return orders, skipped
}

func (uc *UseCase) knownCosts(ctx context.Context, userID string) (map[finance.CostKey]decimal.Decimal, error) {
	list, err := uc.d.Orders.KnownCosts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("importer: costos conocidos: %w", err)
	}
	out := make(map[finance.CostKey]decimal.Decimal, len(list))
	for _, c := range list {
		if c.UnitCost.IsPositive() {
			out[finance.KeyOf(c.SKU, c.ProductName)] = c.UnitCost
		}
	}
	return out, nil
}

func cell(row map[string]string, m map[Field]string) func(Field) string {
	return func(f Field) string {
		h, ok := m[f]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row[h])
	}
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	time.RFC3339,
}

func parseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// span rango [inicio del primer día, inicio del día siguiente al último) de los pedidos.
func span(orders []entity.Order) (time.Time, time.Time) {
	if len(orders) == 0 {
		return time.Time{}, time.Time{}
	}
	minT, maxT := orders[0].OrderedAt, orders[0].OrderedAt
	for _, o := range orders[1:] {
		if o.OrderedAt.Before(minT) {
			minT = o.OrderedAt
		}
		if o.OrderedAt.After(maxT) {
			maxT = o.OrderedAt
		}
	}
	loc := minT.Location()
	from := time.Date(minT.Year(), minT.Month(), minT.Day(), 0, 0, 0, 0, loc)
	maxT = maxT.In(loc)
	until := time.Date(maxT.Year(), maxT.Month(), maxT.Day()+1, 0, 0, 0, 0, loc)
	return from, until
}

func sortedKeys(set map[finance.CostKey]bool) []finance.CostKey {
	out := make([]finance.CostKey, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SKU != out[j].SKU {
			return out[i].SKU < out[j].SKU
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out
}

func view(s *Session) *dto.ImportSessionResponse {
	out := &dto.ImportSessionResponse{
		ID:          s.ID,
		State:       string(s.State),
		FileName:    s.FileName,
		Marketplace: s.Marketplace,
		Headers:     s.Headers,
		RowCount:    len(s.Rows),
		Suggested:   make(map[string]string, len(s.Suggested)),
		Skipped:     s.Skipped,
		Result:      s.Result,
		ExpiresAt:   s.ExpiresAt,
	}
	for f, h := range s.Suggested {
		out.Suggested[string(f)] = h
	}
	if len(s.Mapping) > 0 {
		out.Mapping = make(map[string]string, len(s.Mapping))
		for f, h := range s.Mapping {
			out.Mapping[string(f)] = h
		}
	}
	for _, k := range s.Missing {
		out.MissingCosts = append(out.MissingCosts, dto.CostKeyRequest{SKU: k.SKU, ProductName: k.ProductName})
	}
	return out
}

func orderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:        o.OrderID,
		SKU:            o.SKU,
		ProductName:    o.ProductName,
		VariationName:  o.VariationName,
		Quantity:       o.Quantity,
		GrossRevenue:   o.GrossRevenue,
		PlatformRebate: o.PlatformRebate,
		UnitCost:       o.UnitCost,
		OrderedAt:      o.OrderedAt,
		Marketplace:    o.Marketplace,
	}
}
