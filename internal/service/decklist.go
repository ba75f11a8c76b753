package service

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
	"github.com/rscoates/magic-library/internal/domain/services"
)

// decklistLinePattern matches "4 Lightning Bolt" and "4x Lightning Bolt"
var decklistLinePattern = regexp.MustCompile(`^(\d+)x?\s+(.+)$`)

type decklistService struct {
	entryRepo     repositories.EntryRepository
	containerRepo repositories.ContainerRepository
	cardCatalog   repositories.CardCatalog
	metadataRepo  repositories.MetadataRepository
	logger        *slog.Logger
}

// NewDecklistService creates a new decklist reconciliation service
func NewDecklistService(
	entryRepo repositories.EntryRepository,
	containerRepo repositories.ContainerRepository,
	cardCatalog repositories.CardCatalog,
	metadataRepo repositories.MetadataRepository,
	logger *slog.Logger,
) services.DecklistService {
	return &decklistService{
		entryRepo:     entryRepo,
		containerRepo: containerRepo,
		cardCatalog:   cardCatalog,
		metadataRepo:  metadataRepo,
		logger:        logger,
	}
}

// decklistRequest is one unique (name, partition) pair with its accumulated
// requested quantity, in first-seen order.
type decklistRequest struct {
	name        string
	quantity    int
	isSideboard bool
}

// Check parses a pasted decklist and reports owned and missing quantities per
// card, with the locations holding copies. The read is not transactional; the
// report is a point-in-time snapshot.
func (s *decklistService) Check(ctx context.Context, decklist string, includeSold bool) (*models.DecklistReport, error) {
	// Unparseable lines are skipped, so a garbage-only decklist yields an
	// empty report with zero totals rather than an error.
	requests := parseDecklist(decklist)

	lookups, err := loadDisplayLookups(ctx, s.metadataRepo)
	if err != nil {
		return nil, err
	}

	report := &models.DecklistReport{Cards: []models.DecklistCard{}}
	pathCache := make(map[int64]string)

	for _, request := range requests {
		card, err := s.checkCard(ctx, request, includeSold, lookups, pathCache)
		if err != nil {
			return nil, err
		}

		report.Cards = append(report.Cards, *card)
		report.TotalCardsRequested += card.RequestedQuantity
		report.TotalCardsMissing += card.MissingQuantity
		// The owned total counts copies only up to what the deck asks for
		owned := card.RequestedQuantity - card.MissingQuantity
		report.TotalCardsOwned += owned
	}

	s.logger.Info("decklist checked",
		"unique_cards", len(report.Cards),
		"requested", report.TotalCardsRequested,
		"missing", report.TotalCardsMissing,
	)

	return report, nil
}

// checkCard reconciles one requested card name against owned inventory
func (s *decklistService) checkCard(
	ctx context.Context,
	request decklistRequest,
	includeSold bool,
	lookups *displayLookups,
	pathCache map[int64]string,
) (*models.DecklistCard, error) {
	result := &models.DecklistCard{
		CardName:          request.name,
		RequestedQuantity: request.quantity,
		IsSideboard:       request.isSideboard,
		Locations:         []models.CardLocation{},
	}

	// Exact name match, any printing
	printings, err := s.cardCatalog.FindCardsByName(ctx, request.name)
	if err != nil {
		return nil, err
	}

	for _, printing := range printings {
		entries, err := s.entryRepo.ListByCardKey(ctx, printing.SetCode, printing.Number, includeSold)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			location, err := s.location(ctx, &entry, lookups, pathCache)
			if err != nil {
				return nil, err
			}
			result.OwnedQuantity += entry.Quantity
			result.Locations = append(result.Locations, *location)
		}
	}

	sortLocations(result.Locations, request.quantity)

	result.MissingQuantity = result.RequestedQuantity - result.OwnedQuantity
	if result.MissingQuantity < 0 {
		result.MissingQuantity = 0
	}

	return result, nil
}

func (s *decklistService) location(
	ctx context.Context,
	entry *models.CollectionEntry,
	lookups *displayLookups,
	pathCache map[int64]string,
) (*models.CardLocation, error) {
	container, err := s.containerRepo.GetByID(ctx, entry.ContainerID)
	if err != nil {
		return nil, err
	}

	path, ok := pathCache[container.ID]
	if !ok {
		path, err = s.containerRepo.GetPath(ctx, container.ID)
		if err != nil {
			path = container.Name
		}
		pathCache[container.ID] = path
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

// sortLocations orders a card's locations so that pulling copies from the
// top of the list keeps the pull uniform: (set, language) groups that can
// satisfy the request on their own come first, then larger groups, then
// larger quantities, then entry id for stability.
func sortLocations(locations []models.CardLocation, requested int) {
	type groupKey struct {
		setCode    string
		languageID int64
	}

	groupTotals := make(map[groupKey]int)
	for _, location := range locations {
		key := groupKey{location.SetCode, location.LanguageID}
		groupTotals[key] += location.Quantity
	}

	sort.SliceStable(locations, func(i, j int) bool {
		ki := groupKey{locations[i].SetCode, locations[i].LanguageID}
		kj := groupKey{locations[j].SetCode, locations[j].LanguageID}
		si := groupTotals[ki] >= requested
		sj := groupTotals[kj] >= requested
		if si != sj {
			return si
		}
		if groupTotals[ki] != groupTotals[kj] {
			return groupTotals[ki] > groupTotals[kj]
		}
		if ki != kj {
			if ki.setCode != kj.setCode {
				return ki.setCode < kj.setCode
			}
			return ki.languageID < kj.languageID
		}
		if locations[i].Quantity != locations[j].Quantity {
			return locations[i].Quantity > locations[j].Quantity
		}
		return locations[i].EntryID < locations[j].EntryID
	})
}

// parseDecklist extracts (quantity, name) requests from pasted decklist text.
// Lines that do not match the card pattern are ignored; a bare "sideboard"
// line switches all following cards into the sideboard partition. Duplicate
// names within one partition accumulate into a single request.
func parseDecklist(decklist string) []decklistRequest {
	type requestKey struct {
		name        string
		isSideboard bool
	}

	var order []requestKey
	accumulated := make(map[requestKey]int)

	inSideboard := false
	for _, line := range strings.Split(decklist, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "sideboard", "sideboard:":
			inSideboard = true
			continue
		}

		match := decklistLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		quantity, err := strconv.Atoi(match[1])
		if err != nil || quantity < 1 {
			continue
		}

		key := requestKey{name: strings.TrimSpace(match[2]), isSideboard: inSideboard}
		if _, seen := accumulated[key]; !seen {
			order = append(order, key)
		}
		accumulated[key] += quantity
	}

	requests := make([]decklistRequest, 0, len(order))
	for _, key := range order {
		requests = append(requests, decklistRequest{
			name:        key.name,
			quantity:    accumulated[key],
			isSideboard: key.isSideboard,
		})
	}
	return requests
}
