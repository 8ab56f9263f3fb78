package odoo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/xelth-com/eckwms-mondialrelay/internal/config"
	"github.com/xelth-com/eckwms-mondialrelay/internal/database"
)

const pageSize = 500

// SyncService mirrors the ERP records needed for dispatch into the local DB
// and writes tracking references back.
type SyncService struct {
	client *Client
	db     *database.DB
	cfg    config.OdooConfig
	logger *zap.Logger
	stop   chan struct{}
	once   sync.Once

	mu       sync.Mutex
	lastSync time.Time
}

// NewSyncService creates a new synchronization service
func NewSyncService(db *database.DB, cfg config.OdooConfig, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		client: NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password),
		db:     db,
		cfg:    cfg,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Enabled reports whether an ERP is configured
func (s *SyncService) Enabled() bool {
	return s.cfg.URL != ""
}

// Start begins the background synchronization loop
func (s *SyncService) Start(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Info("Odoo sync disabled: ODOO_URL not configured")
		return
	}

	go func() {
		s.logger.Info("Odoo sync service started")

		if _, err := s.client.Authenticate(); err != nil {
			s.logger.Error("Odoo authentication failed", zap.Error(err))
			return
		}
		s.RunSync(ctx)

		interval := time.Duration(s.cfg.SyncInterval) * time.Minute
		if s.cfg.SyncInterval <= 0 {
			interval = 15 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunSync(ctx)
			case <-ctx.Done():
				s.logger.Info("Odoo sync service stopped")
				return
			case <-s.stop:
				s.logger.Info("Odoo sync service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *SyncService) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// RunSync pulls countries, partners, companies, warehouses and outgoing pickings.
// Partners and pickings are incremental after the first run.
func (s *SyncService) RunSync(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now().UTC()
	s.logger.Info("Odoo: starting sync", zap.Time("since", s.lastSync))

	// Order matters: pickings reference partners, companies and warehouses
	steps := []struct {
		name string
		run  func(context.Context) (int, error)
	}{
		{"countries", s.syncCountries},
		{"partners", s.syncPartners},
		{"companies", s.syncCompanies},
		{"warehouses", s.syncWarehouses},
		{"pickings", s.syncPickings},
	}
	failed := false
	for _, step := range steps {
		count, err := step.run(ctx)
		if err != nil {
			failed = true
			s.logger.Error("Odoo sync error", zap.String("model", step.name), zap.Error(err))
			continue
		}
		s.logger.Info("Odoo: updated records", zap.String("model", step.name), zap.Int("count", count))
	}

	if !failed {
		s.lastSync = started
	}
}

// writeDomain limits incremental models to records changed since the last sync
func (s *SyncService) writeDomain(domain []interface{}) []interface{} {
	if s.lastSync.IsZero() {
		return domain
	}
	return append(domain, []interface{}{"write_date", ">", s.lastSync.Format(odooDateTime)})
}

// fetchAll pages through search_read until a short page
func fetchAll[T any](ctx context.Context, client *Client, model string, domain []interface{}, fields []string) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var page []T
		if err := client.SearchRead(model, domain, fields, pageSize, offset, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

func (s *SyncService) upsert(ctx context.Context, value interface{}) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(value).Error
}

func (s *SyncService) syncCountries(ctx context.Context) (int, error) {
	all, err := fetchAll[countryRecord](ctx, s.client, "res.country", []interface{}{}, []string{"name", "code", "phone_code"})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range all {
		m := r.toModel()
		if err := s.upsert(ctx, &m); err != nil {
			s.logger.Warn("Failed to save country", zap.Int64("id", r.ID), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}

func (s *SyncService) syncPartners(ctx context.Context) (int, error) {
	domain := s.writeDomain([]interface{}{})
	all, err := fetchAll[partnerRecord](ctx, s.client, "res.partner", domain, partnerFields)
	if err != nil {
		return 0, err
	}

	// Parents first so the self reference resolves
	now := time.Now().UTC()
	count := 0
	for _, pass := range []bool{true, false} {
		for _, r := range all {
			if (r.ParentID.ID == 0) != pass {
				continue
			}
			m := r.toModel(now)
			if err := s.upsert(ctx, &m); err != nil {
				s.logger.Warn("Failed to save partner", zap.Int64("id", r.ID), zap.Error(err))
				continue
			}
			count++
		}
	}
	return count, nil
}

func (s *SyncService) syncCompanies(ctx context.Context) (int, error) {
	all, err := fetchAll[companyRecord](ctx, s.client, "res.company", []interface{}{}, []string{"name", "partner_id"})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range all {
		m := r.toModel()
		if err := s.upsert(ctx, &m); err != nil {
			s.logger.Warn("Failed to save company", zap.Int64("id", r.ID), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}

func (s *SyncService) syncWarehouses(ctx context.Context) (int, error) {
	all, err := fetchAll[warehouseRecord](ctx, s.client, "stock.warehouse", []interface{}{}, []string{"name", "code", "partner_id", "company_id"})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range all {
		m := r.toModel()
		if err := s.upsert(ctx, &m); err != nil {
			s.logger.Warn("Failed to save warehouse", zap.Int64("id", r.ID), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}

func (s *SyncService) syncPickings(ctx context.Context) (int, error) {
	types, err := fetchAll[pickingTypeRecord](ctx, s.client, "stock.picking.type", []interface{}{[]interface{}{"code", "=", "outgoing"}}, []string{"warehouse_id"})
	if err != nil {
		return 0, fmt.Errorf("picking types: %w", err)
	}
	warehouses := make(map[int64]int64, len(types))
	for _, t := range types {
		warehouses[t.ID] = t.WarehouseID.ID
	}

	domain := s.writeDomain([]interface{}{[]interface{}{"picking_type_code", "=", "outgoing"}})
	all, err := fetchAll[pickingRecord](ctx, s.client, "stock.picking", domain, pickingFields)
	if err != nil {
		return 0, err
	}

	amounts, err := s.saleAmounts(ctx, all)
	if err != nil {
		// Amounts only feed the informational price
		s.logger.Warn("Failed to read sale order totals", zap.Error(err))
		amounts = map[int64]float64{}
	}

	now := time.Now().UTC()
	count := 0
	for _, r := range all {
		m := r.toModel(warehouses, amounts, now)
		if err := s.upsert(ctx, &m); err != nil {
			s.logger.Warn("Failed to save picking", zap.Int64("id", r.ID), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}

func (s *SyncService) saleAmounts(ctx context.Context, pickings []pickingRecord) (map[int64]float64, error) {
	var ids []int64
	seen := map[int64]bool{}
	for _, p := range pickings {
		if id := p.SaleID.ID; id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	amounts := make(map[int64]float64, len(ids))
	if len(ids) == 0 {
		return amounts, nil
	}

	sales, err := fetchAll[saleRecord](ctx, s.client, "sale.order", []interface{}{[]interface{}{"id", "in", ids}}, []string{"amount_total"})
	if err != nil {
		return nil, err
	}
	for _, so := range sales {
		amounts[so.ID] = so.AmountTotal
	}
	return amounts, nil
}

// PublishTracking writes the carrier reference on the ERP picking
func (s *SyncService) PublishTracking(ctx context.Context, pickingID int64, reference string) error {
	if !s.Enabled() {
		return nil
	}
	if s.client.UID() == 0 {
		if _, err := s.client.Authenticate(); err != nil {
			return err
		}
	}
	return s.client.Write("stock.picking", []int64{pickingID}, map[string]interface{}{
		"carrier_tracking_ref": reference,
	})
}
