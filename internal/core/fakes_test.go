package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"amarhadis/pkg/models"
)

// In-memory repository fakes. Each method that a service exercises has a
// matching error injection field so tests can force individual failures.

type fakeHadithRepo struct {
	hadiths map[string]models.Hadith
	order   []string

	getByIDErr      error
	getByIDsErr     error
	listByStatusErr error
	listAnyErr      error
	upsertAllErr    error
	incViewErr      error

	viewCounts map[string]int
}

func newFakeHadithRepo(hadiths ...models.Hadith) *fakeHadithRepo {
	r := &fakeHadithRepo{
		hadiths:    make(map[string]models.Hadith),
		viewCounts: make(map[string]int),
	}
	for _, h := range hadiths {
		r.hadiths[h.ID] = h
		r.order = append(r.order, h.ID)
	}
	return r
}

func (r *fakeHadithRepo) Create(ctx context.Context, hadith *models.Hadith) error {
	r.hadiths[hadith.ID] = *hadith
	r.order = append(r.order, hadith.ID)
	return nil
}

func (r *fakeHadithRepo) GetByID(ctx context.Context, id string) (*models.Hadith, error) {
	if r.getByIDErr != nil {
		return nil, r.getByIDErr
	}
	h, ok := r.hadiths[id]
	if !ok {
		return nil, models.ErrHadithNotFound
	}
	return &h, nil
}

func (r *fakeHadithRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Hadith, error) {
	if r.getByIDsErr != nil {
		return nil, r.getByIDsErr
	}
	var out []models.Hadith
	for _, id := range ids {
		if h, ok := r.hadiths[id]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHadithRepo) List(ctx context.Context, filter models.HadithFilter, limit, offset int) ([]models.Hadith, int, error) {
	return nil, 0, nil
}

func (r *fakeHadithRepo) UpdateStatus(ctx context.Context, id string, status models.HadithStatus) error {
	h, ok := r.hadiths[id]
	if !ok {
		return models.ErrHadithNotFound
	}
	h.Status = status
	r.hadiths[id] = h
	return nil
}

func (r *fakeHadithRepo) ListByStatus(ctx context.Context, status models.HadithStatus, limit int) ([]models.Hadith, error) {
	if r.listByStatusErr != nil {
		return nil, r.listByStatusErr
	}
	var out []models.Hadith
	for _, id := range r.order {
		h := r.hadiths[id]
		if h.Status != status {
			continue
		}
		out = append(out, h)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeHadithRepo) ListAny(ctx context.Context, limit int) ([]models.Hadith, error) {
	if r.listAnyErr != nil {
		return nil, r.listAnyErr
	}
	var out []models.Hadith
	for _, id := range r.order {
		out = append(out, r.hadiths[id])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeHadithRepo) UpsertAll(ctx context.Context, hadiths []models.Hadith) error {
	if r.upsertAllErr != nil {
		return r.upsertAllErr
	}
	for _, h := range hadiths {
		if _, exists := r.hadiths[h.ID]; exists {
			continue
		}
		r.hadiths[h.ID] = h
		r.order = append(r.order, h.ID)
	}
	return nil
}

func (r *fakeHadithRepo) IncrementViewCount(ctx context.Context, id string) error {
	if r.incViewErr != nil {
		return r.incViewErr
	}
	r.viewCounts[id]++
	return nil
}

func (r *fakeHadithRepo) IncrementLikeCount(ctx context.Context, id string) error  { return nil }
func (r *fakeHadithRepo) IncrementShareCount(ctx context.Context, id string) error { return nil }

func (r *fakeHadithRepo) UpdateWeeklyScore(ctx context.Context, id string, score int) error {
	return nil
}

func (r *fakeHadithRepo) GetTrending(ctx context.Context, limit int) ([]*models.TrendingHadith, error) {
	return nil, nil
}

func (r *fakeHadithRepo) Search(ctx context.Context, query string, limit, offset int) ([]*models.HadithSearchResult, int, error) {
	return nil, 0, nil
}

func (r *fakeHadithRepo) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeScheduleRepo struct {
	byDate map[string]*models.DailySchedule

	getErr    error
	upsertErr error
	ensureErr error
	listErr   error

	upcoming  []models.DailySchedule
	lastFrom  string
	lastLimit int
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{byDate: make(map[string]*models.DailySchedule)}
}

func (r *fakeScheduleRepo) GetByDate(ctx context.Context, dateKey string) (*models.DailySchedule, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.byDate[dateKey]
	if !ok {
		return nil, models.ErrScheduleNotFound
	}
	return s, nil
}

func (r *fakeScheduleRepo) Upsert(ctx context.Context, schedule *models.DailySchedule) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.byDate[schedule.DateKey] = schedule
	return nil
}

func (r *fakeScheduleRepo) EnsureExists(ctx context.Context, schedule *models.DailySchedule) error {
	if r.ensureErr != nil {
		return r.ensureErr
	}
	if _, ok := r.byDate[schedule.DateKey]; !ok {
		r.byDate[schedule.DateKey] = schedule
	}
	return nil
}

func (r *fakeScheduleRepo) ListUpcoming(ctx context.Context, fromDate string, limit int) ([]models.DailySchedule, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.lastFrom = fromDate
	r.lastLimit = limit
	return r.upcoming, nil
}

type fakeAchievementRepo struct {
	defs    []models.Achievement
	unlocks map[string][]models.UserAchievement

	listActiveErr   error
	listUnlockedErr error
	insertErr       error
	upsertErr       error

	upserted []models.Achievement
}

func newFakeAchievementRepo(defs ...models.Achievement) *fakeAchievementRepo {
	return &fakeAchievementRepo{
		defs:    defs,
		unlocks: make(map[string][]models.UserAchievement),
	}
}

func (r *fakeAchievementRepo) ListActive(ctx context.Context) ([]models.Achievement, error) {
	if r.listActiveErr != nil {
		return nil, r.listActiveErr
	}
	var out []models.Achievement
	for _, d := range r.defs {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) ListAll(ctx context.Context) ([]models.Achievement, error) {
	return r.defs, nil
}

func (r *fakeAchievementRepo) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	for _, d := range r.defs {
		if d.ID == id {
			def := d
			return &def, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeAchievementRepo) UpsertDefinition(ctx context.Context, def *models.Achievement) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, *def)
	return nil
}

func (r *fakeAchievementRepo) ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	if r.listUnlockedErr != nil {
		return nil, r.listUnlockedErr
	}
	return r.unlocks[userID], nil
}

func (r *fakeAchievementRepo) InsertUnlock(ctx context.Context, unlock *models.UserAchievement) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, ua := range r.unlocks[unlock.UserID] {
		if ua.AchievementID == unlock.AchievementID {
			return models.ErrDuplicateUnlock
		}
	}
	r.unlocks[unlock.UserID] = append(r.unlocks[unlock.UserID], *unlock)
	return nil
}

type fakeUserRepo struct {
	stats map[string]*models.UserStats

	getStatsErr    error
	updateStatsErr error
	addPointsErr   error
	updateLevelErr error

	levelUpdates []int
}

func newFakeUserRepo(stats ...*models.UserStats) *fakeUserRepo {
	r := &fakeUserRepo{stats: make(map[string]*models.UserStats)}
	for _, s := range stats {
		copied := *s
		r.stats[s.UserID] = &copied
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

// GetStats returns a copy so service-side mutation is only visible after
// an explicit UpdateStats
func (r *fakeUserRepo) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	if r.getStatsErr != nil {
		return nil, r.getStatsErr
	}
	s, ok := r.stats[userID]
	if !ok {
		return nil, fmt.Errorf("no stats row for %s", userID)
	}
	copied := *s
	return &copied, nil
}

func (r *fakeUserRepo) UpdateStats(ctx context.Context, stats *models.UserStats) error {
	if r.updateStatsErr != nil {
		return r.updateStatsErr
	}
	copied := *stats
	r.stats[stats.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, userID string, delta int) (int, error) {
	if r.addPointsErr != nil {
		return 0, r.addPointsErr
	}
	s, ok := r.stats[userID]
	if !ok {
		return 0, fmt.Errorf("no stats row for %s", userID)
	}
	s.Points += delta
	return s.Points, nil
}

func (r *fakeUserRepo) UpdateLevel(ctx context.Context, userID string, level int) error {
	if r.updateLevelErr != nil {
		return r.updateLevelErr
	}
	if s, ok := r.stats[userID]; ok {
		s.Level = level
	}
	r.levelUpdates = append(r.levelUpdates, level)
	return nil
}

func (r *fakeUserRepo) IncrementContributions(ctx context.Context, userID string) error {
	if s, ok := r.stats[userID]; ok {
		s.Contributions++
	}
	return nil
}

type fakeInteractionRepo struct {
	favorites      map[string]int
	favoriteCalls  int
	countFavErr    error
	addFavoriteErr error
	reads          map[string]bool
	insertReadErr  error
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{
		favorites: make(map[string]int),
		reads:     make(map[string]bool),
	}
}

func (r *fakeInteractionRepo) AddFavorite(ctx context.Context, fav *models.Favorite) error {
	if r.addFavoriteErr != nil {
		return r.addFavoriteErr
	}
	r.favorites[fav.UserID]++
	return nil
}

func (r *fakeInteractionRepo) RemoveFavorite(ctx context.Context, userID, hadithID string) error {
	return nil
}

func (r *fakeInteractionRepo) CountFavoritesByUser(ctx context.Context, userID string) (int, error) {
	r.favoriteCalls++
	if r.countFavErr != nil {
		return 0, r.countFavErr
	}
	return r.favorites[userID], nil
}

func (r *fakeInteractionRepo) CountFavoritesByHadith(ctx context.Context, hadithID string) (int, error) {
	return 0, nil
}

func (r *fakeInteractionRepo) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]models.Favorite, int, error) {
	return nil, 0, nil
}

func (r *fakeInteractionRepo) IsFavorited(ctx context.Context, userID, hadithID string) (bool, error) {
	return false, nil
}

func (r *fakeInteractionRepo) UpsertRating(ctx context.Context, rating *models.Rating) error {
	return nil
}

func (r *fakeInteractionRepo) GetAverageRating(ctx context.Context, hadithID string) (float64, int, error) {
	return 0, 0, nil
}

func (r *fakeInteractionRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	return nil
}

func (r *fakeInteractionRepo) ListComments(ctx context.Context, hadithID string, limit, offset int) ([]models.Comment, int, error) {
	return nil, 0, nil
}

func (r *fakeInteractionRepo) DeleteComment(ctx context.Context, commentID, userID string) error {
	return nil
}

func (r *fakeInteractionRepo) InsertReadEvent(ctx context.Context, event *models.ReadEvent) (bool, error) {
	if r.insertReadErr != nil {
		return false, r.insertReadErr
	}
	key := event.UserID + "|" + event.HadithID + "|" + event.DateKey
	if r.reads[key] {
		return false, nil
	}
	r.reads[key] = true
	return true, nil
}

// stubAchievements satisfies AchievementService for reading tests
type stubAchievements struct {
	evalResult []models.Achievement
	evalErr    error
	evalCalls  int
	onEvaluate func()
}

func (s *stubAchievements) Evaluate(ctx context.Context, userID string) ([]models.Achievement, error) {
	s.evalCalls++
	if s.onEvaluate != nil {
		s.onEvaluate()
	}
	if s.evalErr != nil {
		return nil, s.evalErr
	}
	return s.evalResult, nil
}

func (s *stubAchievements) Catalog(ctx context.Context) ([]models.Achievement, error) {
	return nil, nil
}

func (s *stubAchievements) ListForUser(ctx context.Context, userID string) ([]models.AchievementStatus, error) {
	return nil, nil
}

func (s *stubAchievements) ListUnlocked(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	return nil, nil
}

func (s *stubAchievements) Progress(ctx context.Context, userID, achievementID string) (*models.AchievementProgress, error) {
	return nil, nil
}

func (s *stubAchievements) UpsertDefinition(ctx context.Context, def *models.Achievement) error {
	return nil
}

func verifiedHadith(id string) models.Hadith {
	return models.Hadith{
		ID:         id,
		BookID:     "bukhari",
		CategoryID: "faith",
		BanglaText: "টেস্ট হাদিস " + id,
		Narrator:   "আবু হুরাইরা (রা.)",
		Grade:      models.GradeSahih,
		Reference:  "Test " + id,
		Difficulty: models.DifficultyBeginner,
		Status:     models.StatusVerified,
	}
}

func pendingHadith(id string) models.Hadith {
	h := verifiedHadith(id)
	h.Status = models.StatusPending
	return h
}
