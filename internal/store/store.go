package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/storage"
)

//go:generate moq -out broadcaster_mock.go . Broadcaster

// Broadcaster рассылает мутации остальным живым контекстам.
// Отправка fire-and-forget: отправитель никогда не ждет получателей.
type Broadcaster interface {
	Publish(msg models.Message)
}

// Options configures a Store.
type Options struct {
	// NodeID identifies this context in replication messages.
	// Если пустой, генерируется случайный.
	NodeID string

	// Logger for persistence warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store is the single source of truth for the five collections within one
// context. Каждая локальная мутация применяется в памяти, персистится
// целой коллекцией и рассылается остальным контекстам ровно один раз;
// merge удаленных мутаций идемпотентен.
type Store struct {
	storage  storage.CollectionStorage
	bus      Broadcaster
	logger   *slog.Logger
	state    *State
	nodeID   string
	onChange []func()
	mu       sync.RWMutex
}

// New creates a Store, loading initial state from storage.
// Отсутствующие или нечитаемые слоты заменяются умолчаниями —
// ошибки чтения никогда не фатальны.
func New(ctx context.Context, st storage.CollectionStorage, bus Broadcaster, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nodeID := opts.NodeID
	if nodeID == "" {
		nodeID = NewNodeID()
	}

	s := &Store{
		storage: st,
		bus:     bus,
		logger:  logger,
		nodeID:  nodeID,
	}
	s.state = s.loadState(ctx)

	return s
}

// NodeID returns this context's replication node id.
func (s *Store) NodeID() string {
	return s.nodeID
}

// OnChange регистрирует callback, вызываемый после каждого изменения
// состояния (локального или удаленного). View layer перерисовывается
// из этого хука.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// GiverInput contains the fields of a giver registration.
type GiverInput struct {
	Nickname   string
	Avatar     string
	RealName   string
	Phone      string
	Department string
}

// GiftInput contains the fields of a new catalog entry.
type GiftInput struct {
	Name      string
	Image     string
	Animation models.AnimationType
	Price     int64
	IsVisible bool
}

// SendGiftInput contains the fields of a gift send.
type SendGiftInput struct {
	GiverID string
	Message string
	TeamID  int64
	GiftID  int64
}

// AddTeam appends a team with a fresh unique id.
// Команды не реплицируются отдельным сообщением: другие контексты
// подхватывают их через storage-fallback.
func (s *Store) AddTeam(ctx context.Context, name string) models.Team {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.state.Teams))
	for _, t := range s.state.Teams {
		ids = append(ids, t.ID)
	}
	team := models.Team{ID: nextNumericID(ids), Name: name}
	s.state.Teams = append(s.state.Teams, team)
	teams := models.CloneTeams(s.state.Teams)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyTeams, func() error { return s.storage.SaveTeams(ctx, teams) })
	s.notify()

	return team
}

// AddGiver registers a giver, deduplicating by phone number.
// Если даритель с таким номером уже есть, возвращается существующая
// запись без какой-либо мутации, персистентности или broadcast —
// вызов безопасно повторять сколько угодно раз.
func (s *Store) AddGiver(ctx context.Context, input GiverInput) models.Giver {
	s.mu.Lock()
	if existing, ok := s.state.GiverByPhone(input.Phone); ok {
		s.mu.Unlock()
		return existing
	}

	giver := models.Giver{
		ID:         NewGiverID(),
		Nickname:   input.Nickname,
		Avatar:     input.Avatar,
		RealName:   input.RealName,
		Phone:      input.Phone,
		Department: input.Department,
	}
	s.state.Givers = append(s.state.Givers, giver)
	givers := models.CloneGivers(s.state.Givers)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyGivers, func() error { return s.storage.SaveGivers(ctx, givers) })
	s.publish(models.NewAddGiver(s.nodeID, giver))
	s.notify()

	return giver
}

// SendGift creates a new gift event with a fresh id and the current
// timestamp. Идемпотентности нет намеренно: повторный вызов — это
// повторный подарок.
func (s *Store) SendGift(ctx context.Context, input SendGiftInput) models.GiftEvent {
	event := models.GiftEvent{
		ID:        NewEventID(),
		GiverID:   input.GiverID,
		TeamID:    input.TeamID,
		GiftID:    input.GiftID,
		Message:   input.Message,
		Timestamp: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.state.Events = append(s.state.Events, event)
	events := models.CloneEvents(s.state.Events)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyGiftEvents, func() error { return s.storage.SaveEvents(ctx, events) })
	s.publish(models.NewSendGift(s.nodeID, event))
	s.notify()

	return event
}

// AddGift creates a new catalog entry with a fresh unique id.
func (s *Store) AddGift(ctx context.Context, input GiftInput) models.Gift {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.state.Gifts))
	for _, g := range s.state.Gifts {
		ids = append(ids, g.ID)
	}
	gift := models.Gift{
		ID:        nextNumericID(ids),
		Name:      input.Name,
		Price:     input.Price,
		Image:     input.Image,
		IsVisible: input.IsVisible,
		Animation: input.Animation,
	}
	s.state.Gifts = append(s.state.Gifts, gift)
	gifts := models.CloneGifts(s.state.Gifts)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyGifts, func() error { return s.storage.SaveGifts(ctx, gifts) })
	s.publish(models.NewAddGift(s.nodeID, gift))
	s.notify()

	return gift
}

// UpdateGift replaces the catalog entry matching the given id.
// Возвращает false (полный no-op), если id не найден.
func (s *Store) UpdateGift(ctx context.Context, gift models.Gift) bool {
	s.mu.Lock()
	replaced := false
	for i := range s.state.Gifts {
		if s.state.Gifts[i].ID == gift.ID {
			s.state.Gifts[i] = gift
			replaced = true
			break
		}
	}
	if !replaced {
		s.mu.Unlock()
		return false
	}
	gifts := models.CloneGifts(s.state.Gifts)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyGifts, func() error { return s.storage.SaveGifts(ctx, gifts) })
	s.publish(models.NewUpdateGift(s.nodeID, gift))
	s.notify()

	return true
}

// SetCurrentTeam overwrites the current-team selector (nil = сцена пуста).
// Last-write-wins: гонка двух админских контекстов разрешается в пользу
// последнего записавшего.
func (s *Store) SetCurrentTeam(ctx context.Context, teamID *int64) {
	s.mu.Lock()
	s.state.CurrentTeam = models.CloneTeamID(teamID)
	snapshot := models.CloneTeamID(s.state.CurrentTeam)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyCurrentTeam, func() error { return s.storage.SaveCurrentTeam(ctx, snapshot) })
	s.publish(models.NewSetTeam(s.nodeID, snapshot))
	s.notify()
}

// HandleMessage merges a remotely-originated mutation into local state.
// Собственное эхо (тот же NodeID) игнорируется. Слитое состояние
// персистится, чтобы storage-fallback других контекстов тоже сошелся.
func (s *Store) HandleMessage(ctx context.Context, msg models.Message) {
	if msg.NodeID == s.nodeID {
		return
	}
	if err := msg.Validate(); err != nil {
		s.logger.Warn("dropping invalid replication message", "error", err)
		return
	}

	s.mu.Lock()
	changed := s.state.Apply(msg)
	if !changed {
		s.mu.Unlock()
		return
	}

	var key string
	var save func() error
	switch msg.Type {
	case models.MsgAddGiver:
		givers := models.CloneGivers(s.state.Givers)
		key, save = storage.KeyGivers, func() error { return s.storage.SaveGivers(ctx, givers) }
	case models.MsgSendGift:
		events := models.CloneEvents(s.state.Events)
		key, save = storage.KeyGiftEvents, func() error { return s.storage.SaveEvents(ctx, events) }
	case models.MsgAddGift, models.MsgUpdateGift:
		gifts := models.CloneGifts(s.state.Gifts)
		key, save = storage.KeyGifts, func() error { return s.storage.SaveGifts(ctx, gifts) }
	case models.MsgSetTeam:
		teamID := models.CloneTeamID(s.state.CurrentTeam)
		key, save = storage.KeyCurrentTeam, func() error { return s.storage.SaveCurrentTeam(ctx, teamID) }
	}
	s.mu.Unlock()

	if save != nil {
		s.persist(ctx, key, save)
	}
	s.notify()
}

// ReplaceFromStorage reloads all five collections from the persisted store
// and replaces the local copies. Это fallback-путь репликации: наблюдатель
// хранилища видит чужую запись как новое полное значение коллекции,
// а не как инкрементальный diff.
func (s *Store) ReplaceFromStorage(ctx context.Context) {
	state := s.loadState(ctx)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.notify()
}

// Teams returns a copy of the team list.
func (s *Store) Teams() []models.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneTeams(s.state.Teams)
}

// Givers returns a copy of the giver list.
func (s *Store) Givers() []models.Giver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneGivers(s.state.Givers)
}

// Gifts returns a copy of the whole gift catalog.
func (s *Store) Gifts() []models.Gift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneGifts(s.state.Gifts)
}

// VisibleGifts returns a copy of the catalog filtered by visibility.
func (s *Store) VisibleGifts() []models.Gift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]models.Gift, 0, len(s.state.Gifts))
	for _, g := range s.state.Gifts {
		if g.IsVisible {
			visible = append(visible, g)
		}
	}
	return visible
}

// GiftEvents returns a copy of the gift event log.
func (s *Store) GiftEvents() []models.GiftEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneEvents(s.state.Events)
}

// CurrentTeamID returns the current-team selector (nil = сцена пуста).
func (s *Store) CurrentTeamID() *int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneTeamID(s.state.CurrentTeam)
}

// GiverByID looks up a giver by id.
func (s *Store) GiverByID(id string) (models.Giver, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GiverByID(id)
}

// GiverByPhone looks up a giver by phone number.
func (s *Store) GiverByPhone(phone string) (models.Giver, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GiverByPhone(phone)
}

// GiftByID looks up a catalog entry by id.
func (s *Store) GiftByID(id int64) (models.Gift, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GiftByID(id)
}

// TeamByID looks up a team by id.
func (s *Store) TeamByID(id int64) (models.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TeamByID(id)
}

// Snapshot returns a deep copy of the whole state for aggregation.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// loadState читает все пять слотов, подставляя умолчания вместо
// отсутствующих или нечитаемых значений.
func (s *Store) loadState(ctx context.Context) *State {
	state := NewSeededState()

	if teams, err := s.storage.LoadTeams(ctx); err == nil {
		state.Teams = teams
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to load collection, using default", "collection", storage.KeyTeams, "error", err)
	}

	if givers, err := s.storage.LoadGivers(ctx); err == nil {
		state.Givers = givers
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to load collection, using default", "collection", storage.KeyGivers, "error", err)
	}

	if gifts, err := s.storage.LoadGifts(ctx); err == nil {
		state.Gifts = gifts
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to load collection, using default", "collection", storage.KeyGifts, "error", err)
	}

	if events, err := s.storage.LoadEvents(ctx); err == nil {
		state.Events = events
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to load collection, using default", "collection", storage.KeyGiftEvents, "error", err)
	}

	if teamID, err := s.storage.LoadCurrentTeam(ctx); err == nil {
		state.CurrentTeam = teamID
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to load collection, using default", "collection", storage.KeyCurrentTeam, "error", err)
	}

	return state
}

// persist выполняет запись коллекции; ошибка логируется и проглатывается —
// in-memory эффект мутации уже состоялся.
func (s *Store) persist(ctx context.Context, key string, save func() error) {
	if err := save(); err != nil {
		s.logger.Warn("failed to persist collection, skipping write", "collection", key, "error", err)
	}
}

func (s *Store) publish(msg models.Message) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(msg)
}

func (s *Store) notify() {
	s.mu.RLock()
	callbacks := make([]func(), len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}
