package services

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"fixrx_backend/internal/config"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
)

func TestMain(m *testing.M) {
	// Token generation reads the global config; seed it instead of
	// loading config.yaml from disk.
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	os.Exit(m.Run())
}

// In-memory repository fakes. They reproduce the contracts the real
// implementations document (sentinel errors, conditional transitions,
// newest-first ordering) so services can be exercised without Postgres.

// ---------------- users ----------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrEmailAlreadyTaken
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateStatus(db *gorm.DB, id string, status models.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Status = status
	return nil
}

// ---------------- services catalog ----------------

type fakeServiceRepo struct {
	categories []models.ServiceCategory
	services   map[string]*models.Service
}

func newFakeServiceRepo(services ...*models.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{services: make(map[string]*models.Service)}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *fakeServiceRepo) FindCategories(db *gorm.DB) ([]models.ServiceCategory, error) {
	return r.categories, nil
}

func (r *fakeServiceRepo) FindServicesByCategory(db *gorm.DB, categoryID string) ([]models.Service, error) {
	out := make([]models.Service, 0)
	for _, s := range r.services {
		if categoryID == "" || s.CategoryID == categoryID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) FindServiceByID(db *gorm.DB, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, repositories.ErrServiceNotFound
	}
	copy := *s
	return &copy, nil
}

// ---------------- connection requests ----------------

type fakeConnectionRepo struct {
	mu       sync.Mutex
	requests map[string]*models.ConnectionRequest
	seq      int
}

func newFakeConnectionRepo(requests ...*models.ConnectionRequest) *fakeConnectionRepo {
	r := &fakeConnectionRepo{requests: make(map[string]*models.ConnectionRequest)}
	for _, req := range requests {
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeConnectionRepo) Create(db *gorm.DB, request *models.ConnectionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.ConsumerID == request.ConsumerID &&
			existing.VendorID == request.VendorID &&
			equalServiceID(existing.ServiceID, request.ServiceID) &&
			existing.Status != models.RequestStatusCancelled {
			return repositories.ErrDuplicateActiveRequest
		}
	}
	r.seq++
	request.ID = fmt.Sprintf("req-%d", r.seq)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.requests[request.ID] = request
	return nil
}

func equalServiceID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *fakeConnectionRepo) FindByID(db *gorm.DB, id string) (*models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrRequestNotFound
	}
	copy := *request
	return &copy, nil
}

func (r *fakeConnectionRepo) FindActiveByTriple(db *gorm.DB, consumerID, vendorID string, serviceID *string) (*models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.ConsumerID == consumerID && request.VendorID == vendorID &&
			equalServiceID(request.ServiceID, serviceID) &&
			request.Status != models.RequestStatusCancelled {
			copy := *request
			return &copy, nil
		}
	}
	return nil, repositories.ErrRequestNotFound
}

func (r *fakeConnectionRepo) FindByConsumer(db *gorm.DB, consumerID string) ([]models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ConnectionRequest, 0)
	for _, request := range r.requests {
		if request.ConsumerID == consumerID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) FindByVendor(db *gorm.DB, vendorID string) ([]models.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ConnectionRequest, 0)
	for _, request := range r.requests {
		if request.VendorID == vendorID {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) TransitionFromPending(db *gorm.DB, requestID, actorColumn, actorID string, next models.RequestStatus, respondedAt *time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[requestID]
	if !ok {
		return 0, nil
	}
	switch actorColumn {
	case "vendor_id":
		if request.VendorID != actorID {
			return 0, nil
		}
	case "consumer_id":
		if request.ConsumerID != actorID {
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("unknown actor column %q", actorColumn)
	}
	if request.Status != models.RequestStatusPending {
		return 0, nil
	}

	request.Status = next
	request.RespondedAt = respondedAt
	request.UpdatedAt = time.Now()
	return 1, nil
}

// ---------------- ratings ----------------

type fakeRatingRepo struct {
	mu        sync.Mutex
	ratings   map[string]*models.Rating
	aggregate map[string]*models.VendorRatingAggregate
	seq       int
}

func newFakeRatingRepo(ratings ...*models.Rating) *fakeRatingRepo {
	r := &fakeRatingRepo{
		ratings:   make(map[string]*models.Rating),
		aggregate: make(map[string]*models.VendorRatingAggregate),
	}
	for _, rating := range ratings {
		r.ratings[rating.ID] = rating
	}
	return r
}

func (r *fakeRatingRepo) Create(db *gorm.DB, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ratings {
		if existing.RaterID == rating.RaterID && existing.RatedID == rating.RatedID &&
			equalServiceID(existing.ConnectionRequestID, rating.ConnectionRequestID) &&
			existing.DeletedAt.Time.IsZero() {
			return repositories.ErrRatingAlreadyExists
		}
	}
	r.seq++
	rating.ID = fmt.Sprintf("rating-%d", r.seq)
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt
	r.ratings[rating.ID] = rating
	return nil
}

func (r *fakeRatingRepo) FindByID(db *gorm.DB, id string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.ratings[id]
	if !ok || !rating.DeletedAt.Time.IsZero() {
		return nil, repositories.ErrRatingNotFound
	}
	copy := *rating
	return &copy, nil
}

func (r *fakeRatingRepo) FindActiveByTriple(db *gorm.DB, raterID, ratedID string, connectionRequestID *string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rating := range r.ratings {
		if rating.RaterID == raterID && rating.RatedID == ratedID &&
			equalServiceID(rating.ConnectionRequestID, connectionRequestID) &&
			rating.DeletedAt.Time.IsZero() {
			copy := *rating
			return &copy, nil
		}
	}
	return nil, repositories.ErrRatingNotFound
}

func (r *fakeRatingRepo) Update(db *gorm.DB, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.ratings[rating.ID]
	if !ok {
		return repositories.ErrRatingNotFound
	}
	*stored = *rating
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRatingRepo) SoftDelete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.ratings[id]
	if !ok {
		return repositories.ErrRatingNotFound
	}
	rating.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeRatingRepo) FindForVendor(db *gorm.DB, vendorID string, criteria repositories.RatingCriteria) ([]models.Rating, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]models.Rating, 0)
	for _, rating := range r.ratings {
		if rating.RatedID != vendorID || !rating.DeletedAt.Time.IsZero() || !rating.IsVisible {
			continue
		}
		if criteria.MinRating > 0 && rating.Overall < float64(criteria.MinRating) {
			continue
		}
		if criteria.HasText != nil {
			if *criteria.HasText != (rating.ReviewText != "") {
				continue
			}
		}
		if criteria.VerifiedOnly && !rating.IsVerified {
			continue
		}
		matched = append(matched, *rating)
	}

	sortRatings(matched, criteria.Sort)

	total := int64(len(matched))
	start := (criteria.Page - 1) * criteria.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + criteria.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func sortRatings(ratings []models.Rating, key string) {
	less := func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) }
	switch key {
	case "oldest":
		less = func(i, j int) bool { return ratings[i].CreatedAt.Before(ratings[j].CreatedAt) }
	case "highest_rating":
		less = func(i, j int) bool { return ratings[i].Overall > ratings[j].Overall }
	case "lowest_rating":
		less = func(i, j int) bool { return ratings[i].Overall < ratings[j].Overall }
	}
	for i := 0; i < len(ratings); i++ {
		for j := i + 1; j < len(ratings); j++ {
			if less(j, i) {
				ratings[i], ratings[j] = ratings[j], ratings[i]
			}
		}
	}
}

// RecomputeAggregate replays visible ratings, mirroring the SQL the
// real repository runs inside the rating transaction.
func (r *fakeRatingRepo) RecomputeAggregate(db *gorm.DB, vendorID string) (*models.VendorRatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recomputeLocked(vendorID), nil
}

func (r *fakeRatingRepo) recomputeLocked(vendorID string) *models.VendorRatingAggregate {
	agg := &models.VendorRatingAggregate{VendorID: vendorID}
	var sumCost, sumQuality, sumTimeliness, sumProfessionalism int

	for _, rating := range r.ratings {
		if rating.RatedID != vendorID || !rating.DeletedAt.Time.IsZero() || !rating.IsVisible {
			continue
		}
		agg.RatingCount++
		sumCost += rating.Cost
		sumQuality += rating.Quality
		sumTimeliness += rating.Timeliness
		sumProfessionalism += rating.Professionalism
	}

	if agg.RatingCount > 0 {
		n := float64(agg.RatingCount)
		agg.AvgCost = float64(sumCost) / n
		agg.AvgQuality = float64(sumQuality) / n
		agg.AvgTimeliness = float64(sumTimeliness) / n
		agg.AvgProfessionalism = float64(sumProfessionalism) / n
		agg.AvgOverall = float64(sumCost+sumQuality+sumTimeliness+sumProfessionalism) / (4 * n)
	}

	r.aggregate[vendorID] = agg
	copy := *agg
	return &copy
}

func (r *fakeRatingRepo) GetAggregate(db *gorm.DB, vendorID string) (*models.VendorRatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agg, ok := r.aggregate[vendorID]; ok {
		copy := *agg
		return &copy, nil
	}
	return &models.VendorRatingAggregate{VendorID: vendorID}, nil
}

// ---------------- messages ----------------

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
	seq      int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(db *gorm.DB, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	message.ID = fmt.Sprintf("msg-%d", r.seq)
	message.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindByID(db *gorm.DB, id string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages {
		if message.ID == id && message.DeletedAt.Time.IsZero() {
			copy := *message
			return &copy, nil
		}
	}
	return nil, repositories.ErrMessageNotFound
}

func (r *fakeMessageRepo) FindConversation(db *gorm.DB, userID, otherUserID string, limit, offset int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// newest-first, like the real query
	out := make([]models.Message, 0)
	for i := len(r.messages) - 1; i >= 0; i-- {
		message := r.messages[i]
		if !message.DeletedAt.Time.IsZero() {
			continue
		}
		between := (message.SenderID == userID && message.RecipientID == otherUserID) ||
			(message.SenderID == otherUserID && message.RecipientID == userID)
		if between {
			out = append(out, *message)
		}
	}

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkConversationRead(db *gorm.DB, userID, otherUserID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marked int64
	now := time.Now()
	for _, message := range r.messages {
		if message.SenderID == otherUserID && message.RecipientID == userID && !message.IsRead {
			message.IsRead = true
			message.ReadAt = &now
			marked++
		}
	}
	return marked, nil
}

func (r *fakeMessageRepo) ListConversations(db *gorm.DB, userID string) ([]repositories.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := make(map[string]*models.Message)
	unread := make(map[string]int64)
	for _, message := range r.messages {
		if !message.DeletedAt.Time.IsZero() {
			continue
		}
		var counterpart string
		switch userID {
		case message.SenderID:
			counterpart = message.RecipientID
		case message.RecipientID:
			counterpart = message.SenderID
		default:
			continue
		}
		if prev, ok := latest[counterpart]; !ok || message.CreatedAt.After(prev.CreatedAt) {
			latest[counterpart] = message
		}
		if message.RecipientID == userID && !message.IsRead {
			unread[counterpart]++
		}
	}

	out := make([]repositories.ConversationSummary, 0, len(latest))
	for counterpart, message := range latest {
		out = append(out, repositories.ConversationSummary{
			CounterpartID:   counterpart,
			LastMessage:     message.Content,
			LastMessageType: string(message.Type),
			LastMessageAt:   message.CreatedAt,
			UnreadCount:     unread[counterpart],
		})
	}
	return out, nil
}

func (r *fakeMessageRepo) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, message := range r.messages {
		if message.RecipientID == userID && !message.IsRead && message.DeletedAt.Time.IsZero() {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) SoftDelete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages {
		if message.ID == id {
			message.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
			return nil
		}
	}
	return repositories.ErrMessageNotFound
}

// ---------------- notifications ----------------

// fakeNotifier satisfies NotificationService; side effects run in
// goroutines, so it is silent and race-free.
type fakeNotifier struct{}

func (fakeNotifier) Create(db *gorm.DB, userID string, ntype models.NotificationType, title, message string, data map[string]interface{}) error {
	return nil
}
func (fakeNotifier) GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error) {
	return &dto.NotificationListResponse{}, nil
}
func (fakeNotifier) MarkAsRead(db *gorm.DB, userID, notificationID string) error { return nil }
func (fakeNotifier) MarkAllAsRead(db *gorm.DB, userID string) (int64, error)     { return 0, nil }
func (fakeNotifier) GetUnreadCount(db *gorm.DB, userID string) (int64, error)    { return 0, nil }
func (fakeNotifier) NotifyRequestCreated(db *gorm.DB, vendorID, consumerName, requestID string) error {
	return nil
}
func (fakeNotifier) NotifyRequestDecision(db *gorm.DB, consumerID, requestID string, vendor *dto.UserInfo, accepted bool) error {
	return nil
}
func (fakeNotifier) NotifyRequestCancelled(db *gorm.DB, vendorID, consumerName, requestID string) error {
	return nil
}
func (fakeNotifier) NotifyNewMessage(db *gorm.DB, recipientID, senderName string) error { return nil }
func (fakeNotifier) NotifyNewRating(db *gorm.DB, vendorID string, overall float64) error {
	return nil
}
