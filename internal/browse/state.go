package browse

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/casklist/casklist/internal/catalog"
	"github.com/casklist/casklist/internal/prefs"
	"github.com/casklist/casklist/pkg/models"
)

// Fetcher fetches the full drink list for a festival. Implemented by
// feed.Client.
type Fetcher interface {
	FetchAll(ctx context.Context, fest models.Festival, categories []string) ([]models.Drink, error)
}

// Options configures a State.
type Options struct {
	Fetcher    Fetcher
	Favorites  prefs.FavoritesRepository
	Ratings    prefs.RatingsRepository
	Settings   prefs.SettingsRepository
	Categories []string
	// FreshFor is how long a fetch stays fresh before RefreshIfStale
	// refetches.
	FreshFor time.Duration
	Logger   *zap.Logger
	// Now is the clock used for staleness checks and try timestamps.
	// Defaults to time.Now.
	Now func() time.Time
}

// State is the mutable browsing state for one selected festival. All
// methods are safe for concurrent use. Reads return snapshots;
// mutations notify subscribers after the state has changed.
type State struct {
	fetcher    Fetcher
	favorites  prefs.FavoritesRepository
	ratings    prefs.RatingsRepository
	settings   prefs.SettingsRepository
	categories []string
	freshFor   time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	festival    models.Festival
	drinks      []models.Drink
	query       catalog.Query
	loading     bool
	refreshing  bool
	errMsg      string
	lastFetched time.Time

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewState creates a State for the given festival. Call Load to
// populate it.
func NewState(fest models.Festival, opts Options) *State {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &State{
		fetcher:    opts.Fetcher,
		favorites:  opts.Favorites,
		ratings:    opts.Ratings,
		settings:   opts.Settings,
		categories: opts.Categories,
		freshFor:   opts.FreshFor,
		logger:     opts.Logger,
		now:        now,
		festival:   fest,
		subs:       make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change. The returned
// function unsubscribes.
func (s *State) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *State) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Load fetches the full drink list for the current festival, replaces
// the in-memory set, and reattaches stored favorites and ratings. A
// failed load keeps the previous drinks and records a user-facing error
// message. Concurrent calls coalesce: while a load is in flight,
// further calls return immediately.
func (s *State) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return nil
	}
	s.refreshing = true
	s.loading = true
	s.errMsg = ""
	fest := s.festival
	s.mu.Unlock()
	s.notify()

	drinks, err := s.fetcher.FetchAll(ctx, fest, s.categories)
	if err != nil {
		s.logger.Warn("drink fetch failed",
			zap.String("festival", fest.ID),
			zap.Error(err),
		)
		s.mu.Lock()
		s.errMsg = userMessage(err)
		s.loading = false
		s.refreshing = false
		s.mu.Unlock()
		s.notify()
		return err
	}

	s.reattach(ctx, fest.ID, drinks)

	s.mu.Lock()
	s.drinks = drinks
	s.lastFetched = s.now()
	s.loading = false
	s.refreshing = false
	s.mu.Unlock()
	s.notify()
	return nil
}

// reattach projects stored favorites and ratings onto freshly fetched
// drinks by product ID. Store failures degrade to an unattached list.
func (s *State) reattach(ctx context.Context, festivalID string, drinks []models.Drink) {
	favs, err := s.favorites.Favorites(ctx, festivalID)
	if err != nil {
		s.logger.Warn("loading favorites failed", zap.Error(err))
		favs = nil
	}
	ratings, err := s.ratings.Ratings(ctx, festivalID)
	if err != nil {
		s.logger.Warn("loading ratings failed", zap.Error(err))
		ratings = nil
	}
	for i := range drinks {
		_, drinks[i].IsFavorite = favs[drinks[i].ID]
		drinks[i].Rating = ratings[drinks[i].ID]
	}
}

// RefreshIfStale reloads when the last successful fetch is older than
// the freshness window, or when nothing has been fetched yet.
func (s *State) RefreshIfStale(ctx context.Context) error {
	s.mu.Lock()
	stale := s.lastFetched.IsZero() || s.now().Sub(s.lastFetched) >= s.freshFor
	s.mu.Unlock()
	if !stale {
		return nil
	}
	return s.Load(ctx)
}

// SelectFestival persists the selection, switches the state to the new
// festival, drops the old drink list, and loads the new one.
func (s *State) SelectFestival(ctx context.Context, fest models.Festival) error {
	if err := s.settings.SetSelectedFestival(ctx, fest.ID); err != nil {
		return err
	}
	s.mu.Lock()
	s.festival = fest
	s.drinks = nil
	s.lastFetched = time.Time{}
	s.mu.Unlock()
	s.notify()
	return s.Load(ctx)
}

// Festival returns the currently selected festival.
func (s *State) Festival() models.Festival {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.festival
}

// Loading reports whether a load is in flight.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ErrorMessage returns the user-facing message from the last failed
// load, or "" after a success.
func (s *State) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// copyDrinksLocked returns a copy of the drink list. Callers must hold
// s.mu; the copy is what keeps readers safe from concurrent favorite
// and rating writes to the shared elements.
func (s *State) copyDrinksLocked() []models.Drink {
	out := make([]models.Drink, len(s.drinks))
	copy(out, s.drinks)
	return out
}

// copyQueryLocked returns a copy of the query with its own style slice.
// Callers must hold s.mu.
func (s *State) copyQueryLocked() catalog.Query {
	q := s.query
	q.Styles = append([]string(nil), s.query.Styles...)
	return q
}

// Drinks returns a snapshot of the full fetched list with preferences
// attached, unfiltered.
func (s *State) Drinks() []models.Drink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyDrinksLocked()
}

// Visible returns the drinks passing the active filters, sorted by the
// active sort key.
func (s *State) Visible() []models.Drink {
	s.mu.Lock()
	drinks, q := s.copyDrinksLocked(), s.copyQueryLocked()
	s.mu.Unlock()
	return catalog.Visible(drinks, q)
}

// Query returns the active filter and sort configuration.
func (s *State) Query() catalog.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyQueryLocked()
}

// Categories returns the distinct categories in the fetched set.
func (s *State) Categories() []models.Category {
	s.mu.Lock()
	drinks := s.copyDrinksLocked()
	s.mu.Unlock()
	return catalog.Categories(drinks)
}

// CategoryCounts returns unfiltered per-category counts.
func (s *State) CategoryCounts() map[models.Category]int {
	s.mu.Lock()
	drinks := s.copyDrinksLocked()
	s.mu.Unlock()
	return catalog.CategoryCounts(drinks)
}

// AvailableStyles returns the style picker contents for the active
// category filter.
func (s *State) AvailableStyles() []string {
	s.mu.Lock()
	drinks, category := s.copyDrinksLocked(), s.query.Category
	s.mu.Unlock()
	return catalog.Styles(drinks, category)
}

// SimilarTo returns drinks related to the identified one, or nil when
// the ID is not in the fetched set.
func (s *State) SimilarTo(id string) []catalog.SimilarDrink {
	s.mu.Lock()
	drinks := s.copyDrinksLocked()
	s.mu.Unlock()
	for i := range drinks {
		if drinks[i].ID == id {
			return catalog.Similar(drinks, drinks[i])
		}
	}
	return nil
}

// SetCategory narrows to one category and clears the style selection,
// which belongs to the previous category.
func (s *State) SetCategory(c models.Category) {
	s.mu.Lock()
	s.query.Category = c
	s.query.Styles = nil
	s.mu.Unlock()
	s.notify()
}

// ToggleStyle adds the style to the selection, or removes it when
// already selected. The selection is rebuilt rather than compacted in
// place so snapshots handed to readers keep their contents.
func (s *State) ToggleStyle(style string) {
	s.mu.Lock()
	found := false
	kept := make([]string, 0, len(s.query.Styles)+1)
	for _, st := range s.query.Styles {
		if st == style {
			found = true
			continue
		}
		kept = append(kept, st)
	}
	if !found {
		kept = append(kept, style)
	}
	s.query.Styles = kept
	s.mu.Unlock()
	s.notify()
}

// SetSearch sets the free-text search query.
func (s *State) SetSearch(q string) {
	s.mu.Lock()
	s.query.Search = q
	s.mu.Unlock()
	s.notify()
}

// SetSort sets the active sort key.
func (s *State) SetSort(key catalog.SortKey) {
	s.mu.Lock()
	s.query.Sort = key
	s.mu.Unlock()
	s.notify()
}

// SetFavoritesOnly toggles the favorites-only filter.
func (s *State) SetFavoritesOnly(on bool) {
	s.mu.Lock()
	s.query.FavoritesOnly = on
	s.mu.Unlock()
	s.notify()
}

// SetHideUnavailable toggles the hide-unavailable filter and persists
// it so the preference survives restarts.
func (s *State) SetHideUnavailable(ctx context.Context, hide bool) error {
	if err := s.settings.SetHideUnavailable(ctx, hide); err != nil {
		return err
	}
	s.mu.Lock()
	s.query.HideUnavailable = hide
	s.mu.Unlock()
	s.notify()
	return nil
}

// Theme returns the persisted theme mode, or "" when unset.
func (s *State) Theme(ctx context.Context) (string, error) {
	return s.settings.Theme(ctx)
}

// SetTheme persists the theme mode.
func (s *State) SetTheme(ctx context.Context, theme string) error {
	if err := s.settings.SetTheme(ctx, theme); err != nil {
		return err
	}
	s.notify()
	return nil
}

// ToggleFavorite flips the drink's favorite state in the store and in
// the in-memory list, returning the new state.
func (s *State) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	festivalID := s.festival.ID
	s.mu.Unlock()

	fav, err := s.favorites.Toggle(ctx, festivalID, productID)
	if err != nil {
		return false, err
	}
	s.setDrinkFavorite(productID, fav)
	s.notify()
	return fav, nil
}

// MarkTasted records a try at the current time, favoriting the drink if
// it was not one already.
func (s *State) MarkTasted(ctx context.Context, productID string) error {
	s.mu.Lock()
	festivalID := s.festival.ID
	s.mu.Unlock()

	if err := s.favorites.MarkTasted(ctx, festivalID, productID, s.now()); err != nil {
		return err
	}
	s.setDrinkFavorite(productID, true)
	s.notify()
	return nil
}

// DeleteTry removes one recorded try.
func (s *State) DeleteTry(ctx context.Context, productID string, at time.Time) error {
	s.mu.Lock()
	festivalID := s.festival.ID
	s.mu.Unlock()
	if err := s.favorites.DeleteTry(ctx, festivalID, productID, at); err != nil {
		return err
	}
	s.notify()
	return nil
}

// UpdateNotes replaces the drink's tasting notes; empty clears them.
func (s *State) UpdateNotes(ctx context.Context, productID, notes string) error {
	s.mu.Lock()
	festivalID := s.festival.ID
	s.mu.Unlock()
	if err := s.favorites.UpdateNotes(ctx, festivalID, productID, notes); err != nil {
		return err
	}
	s.notify()
	return nil
}

// FavoriteEntries returns the stored favorite entries for the current
// festival keyed by product ID.
func (s *State) FavoriteEntries(ctx context.Context) (map[string]prefs.FavoriteEntry, error) {
	s.mu.Lock()
	festivalID := s.festival.ID
	s.mu.Unlock()
	return s.favorites.Favorites(ctx, festivalID)
}

// SetRating stores a rating and mirrors it onto the in-memory drink.
func (s *State) SetRating(ctx context.Context, productID string, rating int) error {
	s.mu.Lock()
	festivalID := s.festival.ID
	s.mu.Unlock()

	if err := s.ratings.SetRating(ctx, festivalID, productID, rating); err != nil {
		return err
	}
	s.setDrinkRating(productID, rating)
	s.notify()
	return nil
}

// RemoveRating clears a rating in the store and in memory.
func (s *State) RemoveRating(ctx context.Context, productID string) error {
	s.mu.Lock()
	festivalID := s.festival.ID
	s.mu.Unlock()

	if err := s.ratings.RemoveRating(ctx, festivalID, productID); err != nil {
		return err
	}
	s.setDrinkRating(productID, 0)
	s.notify()
	return nil
}

func (s *State) setDrinkFavorite(productID string, fav bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drinks {
		if s.drinks[i].ID == productID {
			s.drinks[i].IsFavorite = fav
			return
		}
	}
}

func (s *State) setDrinkRating(productID string, rating int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drinks {
		if s.drinks[i].ID == productID {
			s.drinks[i].Rating = rating
			return
		}
	}
}
