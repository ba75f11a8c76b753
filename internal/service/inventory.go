package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
	"github.com/rscoates/magic-library/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type inventoryService struct {
	entryRepo     repositories.EntryRepository
	containerRepo repositories.ContainerRepository
	cardCatalog   repositories.CardCatalog
	metadataRepo  repositories.MetadataRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	entryRepo repositories.EntryRepository,
	containerRepo repositories.ContainerRepository,
	cardCatalog repositories.CardCatalog,
	metadataRepo repositories.MetadataRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.InventoryService {
	return &inventoryService{
		entryRepo:     entryRepo,
		containerRepo: containerRepo,
		cardCatalog:   cardCatalog,
		metadataRepo:  metadataRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// Add upserts a quantity into a container. When an entry with the same merge
// key already exists its quantity absorbs the addition; otherwise a new entry
// is created. The lookup and the write share one transaction.
func (s *inventoryService) Add(ctx context.Context, req *services.AddEntryRequest) (*models.EntryDetail, error) {
	if err := s.validateAddRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	card, err := s.cardCatalog.ResolveCard(ctx, req.SetCode, req.CardNumber)
	if err != nil {
		return nil, err
	}

	if _, err := s.containerRepo.GetByID(ctx, req.ContainerID); err != nil {
		return nil, err
	}
	if _, err := s.metadataRepo.GetLanguage(ctx, req.LanguageID); err != nil {
		return nil, err
	}
	if req.FinishID != nil {
		if _, err := s.metadataRepo.GetFinish(ctx, *req.FinishID); err != nil {
			return nil, err
		}
	}

	var result *models.CollectionEntry
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		key := models.MergeKey{
			SetCode:     card.SetCode,
			CardNumber:  card.Number,
			ContainerID: req.ContainerID,
			FinishID:    req.FinishID,
			LanguageID:  req.LanguageID,
		}

		existing, err := s.entryRepo.GetByKeyForUpdate(txCtx, key)
		if err != nil {
			return err
		}

		if existing != nil {
			existing.Quantity += req.Quantity
			if err := s.entryRepo.Update(txCtx, existing); err != nil {
				return err
			}
			result = existing
			return nil
		}

		entry := &models.CollectionEntry{
			SetCode:     card.SetCode,
			CardNumber:  card.Number,
			ContainerID: req.ContainerID,
			Quantity:    req.Quantity,
			FinishID:    req.FinishID,
			LanguageID:  req.LanguageID,
			Comments:    req.Comments,
			Position:    req.Position,
		}
		if err := s.entryRepo.Create(txCtx, entry); err != nil {
			return err
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry added",
		"entry_id", result.ID,
		"set_code", result.SetCode,
		"card_number", result.CardNumber,
		"container_id", result.ContainerID,
		"quantity", result.Quantity,
	)

	return s.entryDetail(ctx, result)
}

// SetFields edits entry fields directly. A finish or language edit that lands
// on another entry's merge key in the same container merges the edited entry
// into the pre-existing one: quantities sum, the edited row is deleted, and
// the survivor keeps its own position and comments.
func (s *inventoryService) SetFields(ctx context.Context, entryID int64, req *services.UpdateEntryRequest) (*models.EntryDetail, error) {
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrInvalidQuantity)
	}
	if req.LanguageID != nil {
		if _, err := s.metadataRepo.GetLanguage(ctx, *req.LanguageID); err != nil {
			return nil, err
		}
	}
	if req.FinishID.Present && req.FinishID.Value != nil {
		if _, err := s.metadataRepo.GetFinish(ctx, *req.FinishID.Value); err != nil {
			return nil, err
		}
	}

	var result *models.CollectionEntry
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		entry, err := s.entryRepo.GetByIDForUpdate(txCtx, entryID)
		if err != nil {
			return err
		}
		oldKey := entry.Key()

		if req.Quantity != nil {
			entry.Quantity = *req.Quantity
		}
		if req.FinishID.Present {
			entry.FinishID = req.FinishID.Value
		}
		if req.LanguageID != nil {
			entry.LanguageID = *req.LanguageID
		}
		if req.Comments != nil {
			entry.Comments = req.Comments
		}
		if req.Position.Present {
			entry.Position = req.Position.Value
		}

		// A variant edit can collide with an existing row under the new key
		if !entry.Key().SameVariant(oldKey) {
			collided, err := s.entryRepo.GetByKeyForUpdate(txCtx, entry.Key())
			if err != nil {
				return err
			}
			if collided != nil && collided.ID != entry.ID {
				collided.Quantity += entry.Quantity
				if err := s.entryRepo.Update(txCtx, collided); err != nil {
					return err
				}
				if err := s.entryRepo.Delete(txCtx, entry.ID); err != nil {
					return err
				}
				s.logger.Info("entry merged on edit",
					"deleted_entry_id", entry.ID,
					"surviving_entry_id", collided.ID,
					"quantity", collided.Quantity,
				)
				result = collided
				return nil
			}
		}

		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return err
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.entryDetail(ctx, result)
}

// Delete removes an entry outright
func (s *inventoryService) Delete(ctx context.Context, entryID int64) error {
	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		return err
	}
	s.logger.Info("entry deleted", "entry_id", entryID)
	return nil
}

// List retrieves entries with display data, optionally scoped to a container
func (s *inventoryService) List(ctx context.Context, containerID *int64, includeSold bool) ([]models.EntryDetail, error) {
	entries, err := s.entryRepo.List(ctx, containerID, includeSold)
	if err != nil {
		return nil, err
	}
	return s.entryDetails(ctx, entries)
}

// SearchByCardName groups owned entries by card with per-location rows
func (s *inventoryService) SearchByCardName(ctx context.Context, query string, includeSold bool) ([]models.CardSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", domain.ErrValidation)
	}

	cards, err := s.cardCatalog.SearchCards(ctx, query, 100)
	if err != nil {
		return nil, err
	}

	lookups, err := loadDisplayLookups(ctx, s.metadataRepo)
	if err != nil {
		return nil, err
	}

	var summaries []models.CardSummary
	for _, card := range cards {
		entries, err := s.entryRepo.ListByCardKey(ctx, card.SetCode, card.Number, includeSold)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}

		summary := models.CardSummary{
			SetCode:    card.SetCode,
			CardNumber: card.Number,
			CardName:   card.Name,
			Rarity:     card.Rarity,
		}
		for _, entry := range entries {
			location, err := s.cardLocation(ctx, &entry, lookups)
			if err != nil {
				return nil, err
			}
			summary.TotalQuantity += entry.Quantity
			summary.Locations = append(summary.Locations, *location)
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Move atomically transfers quantity out of an entry into a target container.
// The transfer merges into an existing target entry with the same variant, or
// creates one; a fully drained source entry is deleted.
func (s *inventoryService) Move(ctx context.Context, req *services.MoveRequest) (*models.MoveResult, error) {
	var result *models.MoveResult
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		source, err := s.entryRepo.GetByIDForUpdate(txCtx, req.EntryID)
		if err != nil {
			return err
		}

		if req.Quantity < 1 {
			return fmt.Errorf("move quantity must be at least 1: %w", domain.ErrInvalidQuantity)
		}
		if req.Quantity > source.Quantity {
			return fmt.Errorf("requested %d of %d available: %w", req.Quantity, source.Quantity, domain.ErrInsufficientQuantity)
		}

		target, err := s.containerRepo.GetByID(txCtx, req.TargetContainerID)
		if err != nil {
			return err
		}
		if source.ContainerID == target.ID {
			return fmt.Errorf("entry %d is already in container %d: %w", source.ID, target.ID, domain.ErrSameContainer)
		}

		targetKey := source.Key()
		targetKey.ContainerID = target.ID

		targetEntry, err := s.entryRepo.GetByKeyForUpdate(txCtx, targetKey)
		if err != nil {
			return err
		}

		if targetEntry != nil {
			targetEntry.Quantity += req.Quantity
			if err := s.entryRepo.Update(txCtx, targetEntry); err != nil {
				return err
			}
		} else {
			targetEntry = &models.CollectionEntry{
				SetCode:     source.SetCode,
				CardNumber:  source.CardNumber,
				ContainerID: target.ID,
				Quantity:    req.Quantity,
				FinishID:    source.FinishID,
				LanguageID:  source.LanguageID,
				Comments:    source.Comments,
			}
			if err := s.entryRepo.Create(txCtx, targetEntry); err != nil {
				return err
			}
		}

		remaining := source.Quantity - req.Quantity
		if remaining == 0 {
			if err := s.entryRepo.Delete(txCtx, source.ID); err != nil {
				return err
			}
		} else {
			source.Quantity = remaining
			if err := s.entryRepo.Update(txCtx, source); err != nil {
				return err
			}
		}

		path, err := s.containerRepo.GetPath(txCtx, target.ID)
		if err != nil {
			path = target.Name
		}

		result = &models.MoveResult{
			Success:                 true,
			Message:                 fmt.Sprintf("Moved %d x %s %s to %s", req.Quantity, source.SetCode, source.CardNumber, target.Name),
			SourceEntryID:           source.ID,
			SourceRemainingQuantity: remaining,
			TargetEntryID:           targetEntry.ID,
			TargetQuantity:          targetEntry.Quantity,
			TargetContainerName:     target.Name,
			TargetContainerPath:     path,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry moved",
		"source_entry_id", result.SourceEntryID,
		"target_entry_id", result.TargetEntryID,
		"quantity", req.Quantity,
		"target_container_id", req.TargetContainerID,
	)

	return result, nil
}

// displayLookups caches the flat reference tables for entry enrichment
type displayLookups struct {
	languages map[int64]string
	finishes  map[int64]string
}

func loadDisplayLookups(ctx context.Context, metadataRepo repositories.MetadataRepository) (*displayLookups, error) {
	languages, err := metadataRepo.ListLanguages(ctx)
	if err != nil {
		return nil, err
	}
	finishes, err := metadataRepo.ListFinishes(ctx)
	if err != nil {
		return nil, err
	}

	lookups := &displayLookups{
		languages: make(map[int64]string, len(languages)),
		finishes:  make(map[int64]string, len(finishes)),
	}
	for _, l := range languages {
		lookups.languages[l.ID] = l.Name
	}
	for _, f := range finishes {
		lookups.finishes[f.ID] = f.Name
	}
	return lookups, nil
}

func (l *displayLookups) finishName(id *int64) *string {
	if id == nil {
		return nil
	}
	if name, ok := l.finishes[*id]; ok {
		return &name
	}
	return nil
}

// entryDetail joins one entry with its catalog and reference display data
func (s *inventoryService) entryDetail(ctx context.Context, entry *models.CollectionEntry) (*models.EntryDetail, error) {
	details, err := s.entryDetails(ctx, []models.CollectionEntry{*entry})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *inventoryService) entryDetails(ctx context.Context, entries []models.CollectionEntry) ([]models.EntryDetail, error) {
	lookups, err := loadDisplayLookups(ctx, s.metadataRepo)
	if err != nil {
		return nil, err
	}

	cardNames := make(map[string]string)
	containerNames := make(map[int64]string)

	details := make([]models.EntryDetail, 0, len(entries))
	for _, entry := range entries {
		cardKey := entry.SetCode + "/" + entry.CardNumber
		if _, ok := cardNames[cardKey]; !ok {
			card, err := s.cardCatalog.ResolveCard(ctx, entry.SetCode, entry.CardNumber)
			if err != nil {
				return nil, err
			}
			cardNames[cardKey] = card.Name
		}
		if _, ok := containerNames[entry.ContainerID]; !ok {
			container, err := s.containerRepo.GetByID(ctx, entry.ContainerID)
			if err != nil {
				return nil, err
			}
			containerNames[entry.ContainerID] = container.Name
		}

		details = append(details, models.EntryDetail{
			CollectionEntry: entry,
			CardName:        cardNames[cardKey],
			ContainerName:   containerNames[entry.ContainerID],
			FinishName:      lookups.finishName(entry.FinishID),
			LanguageName:    lookups.languages[entry.LanguageID],
		})
	}

	return details, nil
}

// cardLocation builds the per-location row for card search and decklist output
func (s *inventoryService) cardLocation(ctx context.Context, entry *models.CollectionEntry, lookups *displayLookups) (*models.CardLocation, error) {
	container, err := s.containerRepo.GetByID(ctx, entry.ContainerID)
	if err != nil {
		return nil, err
	}
	path, err := s.containerRepo.GetPath(ctx, container.ID)
	if err != nil {
		path = container.Name
	}

	return &models.CardLocation{
		EntryID:       entry.ID,
		ContainerID:   container.ID,
		ContainerName: container.Name,
		ContainerPath: path,
		SetCode:       entry.SetCode,
		CardNumber:    entry.CardNumber,
		Quantity:      entry.Quantity,
		FinishName:    lookups.finishName(entry.FinishID),
		LanguageName:  lookups.languages[entry.LanguageID],
		LanguageID:    entry.LanguageID,
		Comments:      entry.Comments,
	}, nil
}

// validateAddRequest validates an add-to-collection request
func (s *inventoryService) validateAddRequest(req *services.AddEntryRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.SetCode, validation.Required),
		validation.Field(&req.CardNumber, validation.Required),
		validation.Field(&req.ContainerID, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&req.LanguageID, validation.Required),
	)
}
