package service

import (
	"context"
	"fmt"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/repository"
	"bolpur-mart/internal/retry"
	"bolpur-mart/internal/timeslot"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	settingsRepo repository.SettingsRepository
	clock        timeslot.Clock
	retry        retry.Config
	logger       zerolog.Logger
}

// NewCatalogService creates a new catalog service. The clock decides which
// time slot is current.
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	settingsRepo repository.SettingsRepository,
	clock timeslot.Clock,
	retryCfg retry.Config,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		clock:        clock,
		retry:        retryCfg,
		logger:       logger.With().Str("service", "catalog").Logger(),
	}
}

// loadRules reads and decodes the time rules document.
func (s *catalogService) loadRules(ctx context.Context) (model.TimeRulesConfig, error) {
	doc, err := retry.Do(ctx, s.retry, s.logger, "load_time_rules", func(ctx context.Context) (map[string]any, error) {
		return s.settingsRepo.Get(ctx, model.TimeRulesSettingKey)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load time rules")
		return nil, fmt.Errorf("failed to load time rules: %w", err)
	}

	rules, err := timeslot.DecodeConfig(doc)
	if err != nil {
		s.logger.Error().Err(err).Msg("stored time rules are malformed")
		return nil, err
	}
	return rules, nil
}

func (s *catalogService) Products(ctx context.Context, f timeslot.Filter) ([]model.Product, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	slotID, ok := timeslot.ResolveCurrentSlot(rules, s.clock())
	if !ok {
		s.logger.Debug().Msg("no active time slot, catalogue is empty")
		return []model.Product{}, nil
	}

	products, err := retry.Do(ctx, s.retry, s.logger, "load_products", s.productRepo.GetAll)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	available := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Available {
			available = append(available, p)
		}
	}

	allowed := timeslot.CategoryIDs(timeslot.AllowedCategories(rules, slotID))
	filtered := timeslot.FilterProducts(available, allowed, f)

	s.logger.Debug().
		Str("slot", slotID).
		Int("total", len(products)).
		Int("visible", len(filtered)).
		Msg("catalogue resolved")

	return filtered, nil
}

func (s *catalogService) Product(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *catalogService) CategoriesForSlot(ctx context.Context, slotID string) ([]model.CategoryRef, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := rules[slotID]; !ok {
		return nil, model.ErrTimeSlotNotFound
	}
	return timeslot.AllowedCategories(rules, slotID), nil
}

func (s *catalogService) AvailableCategories(ctx context.Context) ([]model.CategoryRef, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	slotID, ok := timeslot.ResolveCurrentSlot(rules, s.clock())
	if !ok {
		return []model.CategoryRef{}, nil
	}
	return timeslot.AllowedCategories(rules, slotID), nil
}

func (s *catalogService) CurrentSlot(ctx context.Context) (*model.CurrentSlot, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	current, ok := timeslot.Current(rules, s.clock())
	if !ok {
		return nil, nil
	}
	return &current, nil
}

func (s *catalogService) TimeRules(ctx context.Context) (model.TimeRulesConfig, error) {
	return s.loadRules(ctx)
}

func (s *catalogService) SaveTimeRules(ctx context.Context, config model.TimeRulesConfig) error {
	if err := timeslot.ValidateConfig(config); err != nil {
		s.logger.Warn().Err(err).Msg("rejected time rules")
		return err
	}

	doc, err := timeslot.EncodeConfig(config)
	if err != nil {
		return err
	}

	if err := s.settingsRepo.Put(ctx, model.TimeRulesSettingKey, doc); err != nil {
		s.logger.Error().Err(err).Msg("failed to save time rules")
		return fmt.Errorf("failed to save time rules: %w", err)
	}

	s.logger.Info().Int("slots", len(config)).Msg("time rules saved")
	return nil
}
