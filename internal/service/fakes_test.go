package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
	"github.com/rscoates/magic-library/internal/httputil"
)

// In-memory fakes backing the service tests. They mirror the repository
// contracts, including sentinel errors and representative ordering, without
// a database.

type fakeTxManager struct{}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeContainerRepo struct {
	containers map[int64]*models.Container
	nextID     int64
}

func newFakeContainerRepo() *fakeContainerRepo {
	return &fakeContainerRepo{containers: make(map[int64]*models.Container), nextID: 1}
}

func (r *fakeContainerRepo) Create(ctx context.Context, container *models.Container) error {
	if container.ParentID != nil {
		if _, ok := r.containers[*container.ParentID]; !ok {
			return domain.ErrUnknownParent
		}
	}
	container.ID = r.nextID
	container.CreatedAt = time.Now()
	r.nextID++
	clone := *container
	r.containers[container.ID] = &clone
	return nil
}

func (r *fakeContainerRepo) GetByID(ctx context.Context, id int64) (*models.Container, error) {
	container, ok := r.containers[id]
	if !ok {
		return nil, fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}
	clone := *container
	return &clone, nil
}

func (r *fakeContainerRepo) Update(ctx context.Context, container *models.Container) error {
	if _, ok := r.containers[container.ID]; !ok {
		return fmt.Errorf("container %d: %w", container.ID, domain.ErrNotFound)
	}
	clone := *container
	r.containers[container.ID] = &clone
	return nil
}

func (r *fakeContainerRepo) SetDepth(ctx context.Context, id int64, depth int) error {
	container, ok := r.containers[id]
	if !ok {
		return fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}
	container.Depth = depth
	return nil
}

func (r *fakeContainerRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.containers[id]; !ok {
		return fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}
	delete(r.containers, id)
	return nil
}

func (r *fakeContainerRepo) ListChildren(ctx context.Context, parentID *int64) ([]models.Container, error) {
	var result []models.Container
	for _, container := range r.containers {
		switch {
		case parentID == nil && container.ParentID == nil:
			result = append(result, *container)
		case parentID != nil && container.ParentID != nil && *container.ParentID == *parentID:
			result = append(result, *container)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeContainerRepo) ListAll(ctx context.Context) ([]models.Container, error) {
	var result []models.Container
	for _, container := range r.containers {
		result = append(result, *container)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeContainerRepo) GetPath(ctx context.Context, id int64) (string, error) {
	container, ok := r.containers[id]
	if !ok {
		return "", fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}
	names := []string{container.Name}
	for container.ParentID != nil {
		container = r.containers[*container.ParentID]
		names = append([]string{container.Name}, names...)
	}
	return strings.Join(names, " > "), nil
}

func (r *fakeContainerRepo) SoldContainerIDs(ctx context.Context) (map[int64]bool, error) {
	sold := make(map[int64]bool)
	for id, container := range r.containers {
		if container.IsSold {
			sold[id] = true
		}
	}
	return sold, nil
}

type fakeTypeRepo struct {
	types  map[int64]*models.ContainerType
	nextID int64
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{types: make(map[int64]*models.ContainerType), nextID: 1}
}

func (r *fakeTypeRepo) Create(ctx context.Context, name string) (*models.ContainerType, error) {
	for _, t := range r.types {
		if strings.EqualFold(t.Name, name) {
			return nil, fmt.Errorf("container type %q: %w", name, domain.ErrConflict)
		}
	}
	containerType := &models.ContainerType{ID: r.nextID, Name: name}
	r.nextID++
	r.types[containerType.ID] = containerType
	clone := *containerType
	return &clone, nil
}

func (r *fakeTypeRepo) GetByID(ctx context.Context, id int64) (*models.ContainerType, error) {
	containerType, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("container type %d: %w", id, domain.ErrUnknownType)
	}
	clone := *containerType
	return &clone, nil
}

func (r *fakeTypeRepo) List(ctx context.Context) ([]models.ContainerType, error) {
	var result []models.ContainerType
	for _, t := range r.types {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeEntryRepo struct {
	entries    map[int64]*models.CollectionEntry
	nextID     int64
	containers *fakeContainerRepo
	catalog    *fakeCardCatalog
	metadata   *fakeMetadataRepo
}

func newFakeEntryRepo(containers *fakeContainerRepo, catalog *fakeCardCatalog, metadata *fakeMetadataRepo) *fakeEntryRepo {
	return &fakeEntryRepo{
		entries:    make(map[int64]*models.CollectionEntry),
		nextID:     1,
		containers: containers,
		catalog:    catalog,
		metadata:   metadata,
	}
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry *models.CollectionEntry) error {
	if _, ok := r.containers.containers[entry.ContainerID]; !ok {
		return fmt.Errorf("container %d: %w", entry.ContainerID, domain.ErrNotFound)
	}
	for _, existing := range r.entries {
		if existing.Key().SameVariant(entry.Key()) {
			return domain.ErrConflict
		}
	}
	entry.ID = r.nextID
	r.nextID++
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id int64) (*models.CollectionEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}
	clone := *entry
	return &clone, nil
}

func (r *fakeEntryRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.CollectionEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEntryRepo) GetByKeyForUpdate(ctx context.Context, key models.MergeKey) (*models.CollectionEntry, error) {
	for _, entry := range r.entries {
		if entry.Key().SameVariant(key) {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeEntryRepo) Update(ctx context.Context, entry *models.CollectionEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return fmt.Errorf("entry %d: %w", entry.ID, domain.ErrNotFound)
	}
	clone := *entry
	r.entries[entry.ID] = &clone
	return nil
}

func (r *fakeEntryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeEntryRepo) List(ctx context.Context, containerID *int64, includeSold bool) ([]models.CollectionEntry, error) {
	sold, _ := r.containers.SoldContainerIDs(ctx)
	var result []models.CollectionEntry
	for _, entry := range r.entries {
		if containerID != nil && entry.ContainerID != *containerID {
			continue
		}
		if !includeSold && sold[entry.ContainerID] {
			continue
		}
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeEntryRepo) ListByCardKey(ctx context.Context, setCode, cardNumber string, includeSold bool) ([]models.CollectionEntry, error) {
	sold, _ := r.containers.SoldContainerIDs(ctx)
	var result []models.CollectionEntry
	for _, entry := range r.entries {
		if !strings.EqualFold(entry.SetCode, setCode) || entry.CardNumber != cardNumber {
			continue
		}
		if !includeSold && sold[entry.ContainerID] {
			continue
		}
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeEntryRepo) MaxPosition(ctx context.Context, containerID int64) (int, error) {
	max := 0
	for _, entry := range r.entries {
		if entry.ContainerID == containerID && entry.Position != nil && *entry.Position > max {
			max = *entry.Position
		}
	}
	return max, nil
}

func (r *fakeEntryRepo) ListPositioned(ctx context.Context, containerID int64, from, to int) ([]models.CollectionEntry, error) {
	var result []models.CollectionEntry
	for _, entry := range r.entries {
		if entry.ContainerID != containerID || entry.Position == nil {
			continue
		}
		if *entry.Position < from || *entry.Position > to {
			continue
		}
		result = append(result, *entry)
	}
	r.sortRepresentative(result)
	return result, nil
}

func (r *fakeEntryRepo) ListAtPosition(ctx context.Context, containerID int64, position int) ([]models.CollectionEntry, error) {
	return r.ListPositioned(ctx, containerID, position, position)
}

func (r *fakeEntryRepo) SetPosition(ctx context.Context, entryID, containerID int64, position *int) (bool, error) {
	entry, ok := r.entries[entryID]
	if !ok || entry.ContainerID != containerID {
		return false, nil
	}
	entry.Position = position
	return true, nil
}

// sortRepresentative mirrors the SQL representative order: position, English
// language first, oldest set release date, then id.
func (r *fakeEntryRepo) sortRepresentative(entries []models.CollectionEntry) {
	farFuture := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	releaseDate := func(setCode string) time.Time {
		if set, ok := r.catalog.sets[strings.ToUpper(setCode)]; ok && set.ReleaseDate != nil {
			return *set.ReleaseDate
		}
		return farFuture
	}
	isEnglish := func(languageID int64) bool {
		for _, language := range r.metadata.languages {
			if language.ID == languageID {
				return strings.EqualFold(language.Name, "English")
			}
		}
		return false
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if *a.Position != *b.Position {
			return *a.Position < *b.Position
		}
		if isEnglish(a.LanguageID) != isEnglish(b.LanguageID) {
			return isEnglish(a.LanguageID)
		}
		ra, rb := releaseDate(a.SetCode), releaseDate(b.SetCode)
		if !ra.Equal(rb) {
			return ra.Before(rb)
		}
		return a.ID < b.ID
	})
}

type fakeCardCatalog struct {
	cards []models.Card
	sets  map[string]models.Set
}

func newFakeCardCatalog() *fakeCardCatalog {
	return &fakeCardCatalog{sets: make(map[string]models.Set)}
}

func (r *fakeCardCatalog) addCard(setCode, number, name, rarity string) {
	r.cards = append(r.cards, models.Card{
		ID:      int64(len(r.cards) + 1),
		SetCode: setCode,
		Number:  number,
		Name:    name,
		Rarity:  rarity,
	})
}

func (r *fakeCardCatalog) addSet(code, name string, released time.Time) {
	r.sets[strings.ToUpper(code)] = models.Set{Code: code, Name: name, ReleaseDate: &released}
}

func (r *fakeCardCatalog) ResolveCard(ctx context.Context, setCode, number string) (*models.Card, error) {
	for _, card := range r.cards {
		if strings.EqualFold(card.SetCode, setCode) && card.Number == number {
			clone := card
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("card %s %s: %w", setCode, number, domain.ErrNotFound)
}

func (r *fakeCardCatalog) FindCardsByName(ctx context.Context, name string) ([]models.Card, error) {
	var result []models.Card
	for _, card := range r.cards {
		if strings.EqualFold(card.Name, name) {
			result = append(result, card)
		}
	}
	return result, nil
}

func (r *fakeCardCatalog) SearchCards(ctx context.Context, query string, limit int) ([]models.Card, error) {
	query = strings.ToLower(query)
	var result []models.Card
	for _, card := range r.cards {
		if strings.Contains(strings.ToLower(card.Name), query) {
			result = append(result, card)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeCardCatalog) GetSet(ctx context.Context, code string) (*models.Set, error) {
	set, ok := r.sets[strings.ToUpper(code)]
	if !ok {
		return nil, nil
	}
	clone := set
	return &clone, nil
}

func (r *fakeCardCatalog) ListSetCodes(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var codes []string
	for _, card := range r.cards {
		if !seen[card.SetCode] {
			seen[card.SetCode] = true
			codes = append(codes, card.SetCode)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (r *fakeCardCatalog) ListNumbersInSet(ctx context.Context, setCode string) ([]string, error) {
	var numbers []string
	for _, card := range r.cards {
		if strings.EqualFold(card.SetCode, setCode) {
			numbers = append(numbers, card.Number)
		}
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("set %s: %w", setCode, domain.ErrNotFound)
	}
	sort.Strings(numbers)
	return numbers, nil
}

type fakeMetadataRepo struct {
	languages []models.Language
	finishes  []models.Finish
}

func newFakeMetadataRepo() *fakeMetadataRepo {
	return &fakeMetadataRepo{
		languages: []models.Language{
			{ID: 1, Code: "en", Name: "English"},
			{ID: 2, Code: "ja", Name: "Japanese"},
		},
		finishes: []models.Finish{
			{ID: 1, Name: "Foil"},
			{ID: 2, Name: "Etched"},
		},
	}
}

func (r *fakeMetadataRepo) GetLanguage(ctx context.Context, id int64) (*models.Language, error) {
	for _, language := range r.languages {
		if language.ID == id {
			clone := language
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("language %d: %w", id, domain.ErrNotFound)
}

func (r *fakeMetadataRepo) GetFinish(ctx context.Context, id int64) (*models.Finish, error) {
	for _, finish := range r.finishes {
		if finish.ID == id {
			clone := finish
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("finish %d: %w", id, domain.ErrNotFound)
}

func (r *fakeMetadataRepo) ListLanguages(ctx context.Context) ([]models.Language, error) {
	return append([]models.Language(nil), r.languages...), nil
}

func (r *fakeMetadataRepo) ListFinishes(ctx context.Context) ([]models.Finish, error) {
	return append([]models.Finish(nil), r.finishes...), nil
}

// testEnv wires the fakes into every service under test.
type testEnv struct {
	containers *fakeContainerRepo
	types      *fakeTypeRepo
	entries    *fakeEntryRepo
	catalog    *fakeCardCatalog
	metadata   *fakeMetadataRepo

	containerSvc *containerService
	inventorySvc *inventoryService
	binderSvc    *binderService
	decklistSvc  *decklistService
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	containers := newFakeContainerRepo()
	types := newFakeTypeRepo()
	catalog := newFakeCardCatalog()
	metadata := newFakeMetadataRepo()
	entries := newFakeEntryRepo(containers, catalog, metadata)
	tx := &fakeTxManager{}

	env := &testEnv{
		containers: containers,
		types:      types,
		entries:    entries,
		catalog:    catalog,
		metadata:   metadata,
	}

	env.containerSvc = NewContainerService(containers, types, tx, logger).(*containerService)
	env.inventorySvc = NewInventoryService(entries, containers, catalog, metadata, tx, logger).(*inventoryService)
	env.binderSvc = NewBinderService(entries, containers, types, catalog, metadata, tx, logger).(*binderService)
	env.decklistSvc = NewDecklistService(entries, containers, catalog, metadata, logger).(*decklistService)

	return env
}

// seedType creates a container type and returns its id.
func (e *testEnv) seedType(name string) int64 {
	containerType, err := e.types.Create(context.Background(), name)
	if err != nil {
		panic(err)
	}
	return containerType.ID
}

// seedContainer creates a container directly through the repo fake.
func (e *testEnv) seedContainer(name string, typeID int64, parentID *int64, depth int) *models.Container {
	container := &models.Container{
		Name:          name,
		TypeID:        typeID,
		ParentID:      parentID,
		Depth:         depth,
		BinderColumns: 3,
	}
	if err := e.containers.Create(context.Background(), container); err != nil {
		panic(err)
	}
	return container
}

// seedEntry creates an entry directly through the repo fake.
func (e *testEnv) seedEntry(setCode, number string, containerID int64, quantity int, finishID *int64, languageID int64, position *int) *models.CollectionEntry {
	entry := &models.CollectionEntry{
		SetCode:     setCode,
		CardNumber:  number,
		ContainerID: containerID,
		Quantity:    quantity,
		FinishID:    finishID,
		LanguageID:  languageID,
		Position:    position,
	}
	if err := e.entries.Create(context.Background(), entry); err != nil {
		panic(err)
	}
	return entry
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func presentInt64(v *int64) httputil.OptionalInt64 {
	return httputil.OptionalInt64{Present: true, Value: v}
}

func presentInt(v *int) httputil.OptionalInt {
	return httputil.OptionalInt{Present: true, Value: v}
}
