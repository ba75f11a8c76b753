package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
	"github.com/rscoates/magic-library/internal/domain/services"
)

type binderService struct {
	entryRepo     repositories.EntryRepository
	containerRepo repositories.ContainerRepository
	typeRepo      repositories.ContainerTypeRepository
	cardCatalog   repositories.CardCatalog
	metadataRepo  repositories.MetadataRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewBinderService creates a new binder layout service
func NewBinderService(
	entryRepo repositories.EntryRepository,
	containerRepo repositories.ContainerRepository,
	typeRepo repositories.ContainerTypeRepository,
	cardCatalog repositories.CardCatalog,
	metadataRepo repositories.MetadataRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.BinderService {
	return &binderService{
		entryRepo:     entryRepo,
		containerRepo: containerRepo,
		typeRepo:      typeRepo,
		cardCatalog:   cardCatalog,
		metadataRepo:  metadataRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// positionStack is all entries sharing one explicit position, with the
// repository's representative ordering preserved.
type positionStack struct {
	position int
	entries  []models.CollectionEntry
	quantity int
}

// GetPage renders one page of binder slots. Pages are capacity-aligned
// windows over the 1-based position sequence; a page past the data renders
// as all-empty slots rather than an error.
func (s *binderService) GetPage(ctx context.Context, containerID int64, page int) (*models.BinderPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", domain.ErrValidation)
	}

	container, err := s.binderContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}

	columns := container.BinderColumns
	capacity := models.BinderCapacity(columns)

	maxPosition, err := s.entryRepo.MaxPosition(ctx, containerID)
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if maxPosition > 0 {
		totalPages = (maxPosition + capacity - 1) / capacity
	}

	pageStart := (page-1)*capacity + 1
	pageEnd := pageStart + capacity - 1

	entries, err := s.entryRepo.ListPositioned(ctx, containerID, pageStart, pageEnd)
	if err != nil {
		return nil, err
	}
	stacks := groupByPosition(entries)

	lookups, err := loadDisplayLookups(ctx, s.metadataRepo)
	if err != nil {
		return nil, err
	}

	slots := make([]models.BinderSlot, capacity)
	for i := range slots {
		slots[i] = models.BinderSlot{Position: pageStart + i, IsEmpty: true}
	}

	for i, stack := range stacks {
		slot, err := s.slotFor(ctx, &stack.entries[0], stack.quantity, lookups)
		if err != nil {
			return nil, err
		}
		slot.Position = stack.position
		slots[stack.position-pageStart] = *slot

		if !container.BinderFillRow {
			continue
		}

		// Fill-row: copies spill into following empty slots of the same
		// row, stopping at the next explicit position; the rest overflows.
		run, _ := models.FillRowRun(stack.position, stack.quantity, columns)
		if i+1 < len(stacks) && stacks[i+1].position-stack.position < run {
			run = stacks[i+1].position - stack.position
		}
		for offset := 1; offset < run; offset++ {
			spill := slots[stack.position-pageStart]
			spill.Position = stack.position + offset
			slots[stack.position+offset-pageStart] = spill
		}
		// Excess beyond the run is reported on the last filled slot.
		if overflow := stack.quantity - run; overflow > 0 {
			count := overflow
			slots[stack.position+run-1-pageStart].OverflowCount = &count
		}
	}

	return &models.BinderPage{
		ContainerID:   container.ID,
		ContainerName: container.Name,
		Page:          page,
		TotalPages:    totalPages,
		MaxPosition:   maxPosition,
		BinderColumns: columns,
		BinderFillRow: container.BinderFillRow,
		Slots:         slots,
	}, nil
}

// UpdatePositions bulk-repositions entries within a binder. Each update is
// applied independently; updates naming entries outside the container or
// holding an invalid position are skipped. Returns the number applied.
func (s *binderService) UpdatePositions(ctx context.Context, containerID int64, updates []services.PositionUpdate) (int, error) {
	if _, err := s.binderContainer(ctx, containerID); err != nil {
		return 0, err
	}

	updated := 0
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, update := range updates {
			if update.Position != nil && *update.Position < 1 {
				s.logger.Warn("skipping position update",
					"entry_id", update.EntryID,
					"position", *update.Position,
				)
				continue
			}
			ok, err := s.entryRepo.SetPosition(txCtx, update.EntryID, containerID, update.Position)
			if err != nil {
				return err
			}
			if ok {
				updated++
			} else {
				s.logger.Warn("position update matched no entry",
					"entry_id", update.EntryID,
					"container_id", containerID,
				)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("binder positions updated", "container_id", containerID, "updated", updated)
	return updated, nil
}

// GetPosition lists every entry stacked at one binder position
func (s *binderService) GetPosition(ctx context.Context, containerID int64, position int) (*models.PositionEntries, error) {
	if position < 1 {
		return nil, fmt.Errorf("%w: position must be at least 1", domain.ErrValidation)
	}

	if _, err := s.binderContainer(ctx, containerID); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListAtPosition(ctx, containerID, position)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("position %d: %w", position, domain.ErrNotFound)
	}

	lookups, err := loadDisplayLookups(ctx, s.metadataRepo)
	if err != nil {
		return nil, err
	}

	result := &models.PositionEntries{Position: position}
	for _, entry := range entries {
		card, err := s.cardCatalog.ResolveCard(ctx, entry.SetCode, entry.CardNumber)
		if err != nil {
			return nil, err
		}

		var releaseDate *string
		if set, err := s.cardCatalog.GetSet(ctx, entry.SetCode); err == nil && set != nil && set.ReleaseDate != nil {
			formatted := set.ReleaseDate.Format("2006-01-02")
			releaseDate = &formatted
		}

		result.Entries = append(result.Entries, models.PositionEntry{
			EntryID:      entry.ID,
			SetCode:      entry.SetCode,
			CardNumber:   entry.CardNumber,
			CardName:     card.Name,
			Quantity:     entry.Quantity,
			FinishName:   lookups.finishName(entry.FinishID),
			LanguageName: lookups.languages[entry.LanguageID],
			ReleaseDate:  releaseDate,
		})
		result.TotalQuantity += entry.Quantity
	}
	result.CardName = result.Entries[0].CardName

	return result, nil
}

// binderContainer loads a container and checks it uses binder layout
func (s *binderService) binderContainer(ctx context.Context, containerID int64) (*models.Container, error) {
	container, err := s.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, err
	}

	containerType, err := s.typeRepo.GetByID(ctx, container.TypeID)
	if err != nil {
		return nil, err
	}
	if !containerType.IsBinderCapable() {
		return nil, fmt.Errorf("%w: container %d is not a %s container", domain.ErrValidation, containerID, models.BinderCapableType)
	}

	return container, nil
}

// groupByPosition groups positioned entries into stacks ordered by position.
// Entry order within a stack follows the repository's representative order.
func groupByPosition(entries []models.CollectionEntry) []*positionStack {
	byPosition := make(map[int]*positionStack)
	for _, entry := range entries {
		if entry.Position == nil {
			continue
		}
		stack, ok := byPosition[*entry.Position]
		if !ok {
			stack = &positionStack{position: *entry.Position}
			byPosition[*entry.Position] = stack
		}
		stack.entries = append(stack.entries, entry)
		stack.quantity += entry.Quantity
	}

	stacks := make([]*positionStack, 0, len(byPosition))
	for _, stack := range byPosition {
		stacks = append(stacks, stack)
	}
	sort.Slice(stacks, func(i, j int) bool { return stacks[i].position < stacks[j].position })
	return stacks
}

// slotFor builds a filled slot from a stack's representative entry
func (s *binderService) slotFor(ctx context.Context, entry *models.CollectionEntry, quantity int, lookups *displayLookups) (*models.BinderSlot, error) {
	card, err := s.cardCatalog.ResolveCard(ctx, entry.SetCode, entry.CardNumber)
	if err != nil {
		return nil, err
	}

	entryID := entry.ID
	setCode := entry.SetCode
	cardNumber := entry.CardNumber
	cardName := card.Name
	languageName := lookups.languages[entry.LanguageID]

	return &models.BinderSlot{
		EntryID:      &entryID,
		SetCode:      &setCode,
		CardNumber:   &cardNumber,
		CardName:     &cardName,
		Quantity:     quantity,
		FinishName:   lookups.finishName(entry.FinishID),
		LanguageName: &languageName,
	}, nil
}
