package store

import "github.com/iudanet/giftstream/internal/models"

// State содержит канонические in-memory копии всех пяти коллекций
// одного контекста. Методы не выполняют никакого IO: персистентность
// и репликация — ответственность Store. Благодаря этому merge-логику
// можно тестировать без настоящего хранилища и шины сообщений.
type State struct {
	CurrentTeam *int64
	Teams       []models.Team
	Givers      []models.Giver
	Gifts       []models.Gift
	Events      []models.GiftEvent
}

// NewSeededState возвращает состояние с документированными умолчаниями:
// три seed-команды, восемь seed-подарков, пустые дарители и события,
// селектор указывает на первую команду.
func NewSeededState() *State {
	return &State{
		Teams:       models.SeedTeams(),
		Givers:      []models.Giver{},
		Gifts:       models.SeedGifts(),
		Events:      []models.GiftEvent{},
		CurrentTeam: models.DefaultCurrentTeamID(),
	}
}

// Clone создает глубокую копию состояния.
func (s *State) Clone() *State {
	return &State{
		Teams:       models.CloneTeams(s.Teams),
		Givers:      models.CloneGivers(s.Givers),
		Gifts:       models.CloneGifts(s.Gifts),
		Events:      models.CloneEvents(s.Events),
		CurrentTeam: models.CloneTeamID(s.CurrentTeam),
	}
}

// Apply сливает удаленно-порожденное сообщение в локальное состояние.
// Операция идемпотентна: повторная доставка того же сообщения по любому
// из каналов репликации не меняет состояние второй раз.
// Возвращает true, если состояние изменилось.
func (s *State) Apply(msg models.Message) bool {
	switch msg.Type {
	case models.MsgAddGiver:
		// пропускаем, если даритель с таким id уже известен (эхо или повтор)
		if _, ok := s.GiverByID(msg.Giver.ID); ok {
			return false
		}
		s.Givers = append(s.Givers, *msg.Giver)
		return true

	case models.MsgSendGift:
		// журнал событий append-only; дедупликация по id делает merge
		// безопасным при доставке одного события по обоим каналам
		if s.HasEvent(msg.Event.ID) {
			return false
		}
		s.Events = append(s.Events, *msg.Event)
		return true

	case models.MsgAddGift:
		if _, ok := s.GiftByID(msg.Gift.ID); ok {
			return false
		}
		s.Gifts = append(s.Gifts, *msg.Gift)
		return true

	case models.MsgUpdateGift:
		for i := range s.Gifts {
			if s.Gifts[i].ID == msg.Gift.ID {
				s.Gifts[i] = *msg.Gift
				return true
			}
		}
		// неизвестный id: no-op
		return false

	case models.MsgSetTeam:
		// last-write-wins без сравнения версий
		s.CurrentTeam = models.CloneTeamID(msg.TeamID)
		return true
	}

	return false
}

// GiverByID ищет дарителя по id.
func (s *State) GiverByID(id string) (models.Giver, bool) {
	for _, g := range s.Givers {
		if g.ID == id {
			return g, true
		}
	}
	return models.Giver{}, false
}

// GiverByPhone ищет дарителя по номеру телефона —
// естественному ключу дедупликации.
func (s *State) GiverByPhone(phone string) (models.Giver, bool) {
	for _, g := range s.Givers {
		if g.Phone == phone {
			return g, true
		}
	}
	return models.Giver{}, false
}

// GiftByID ищет подарок в каталоге по id.
func (s *State) GiftByID(id int64) (models.Gift, bool) {
	for _, g := range s.Gifts {
		if g.ID == id {
			return g, true
		}
	}
	return models.Gift{}, false
}

// TeamByID ищет команду по id.
func (s *State) TeamByID(id int64) (models.Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.Team{}, false
}

// HasEvent проверяет наличие события с заданным id.
func (s *State) HasEvent(id string) bool {
	for _, e := range s.Events {
		if e.ID == id {
			return true
		}
	}
	return false
}
