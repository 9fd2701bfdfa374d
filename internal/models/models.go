package models

// AnimationType определяет анимацию, которую display проигрывает
// при отправке подарка.
type AnimationType string

// Поддерживаемые типы анимаций подарков
const (
	AnimationNone          AnimationType = "none"
	AnimationRocketFly     AnimationType = "rocket-fly"
	AnimationCarDrive      AnimationType = "car-drive"
	AnimationPlaneFly      AnimationType = "plane-fly"
	AnimationDiamondFlash  AnimationType = "diamond-flash"
	AnimationGlowstickWave AnimationType = "glowstick-wave"
	AnimationBeerCheers    AnimationType = "beer-cheers"
	AnimationHornBlast     AnimationType = "horn-blast"
	AnimationFlowerBloom   AnimationType = "flower-bloom"
)

// Team represents a performance team that can be put on stage.
// Teams are append-only: never edited or deleted.
type Team struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// Gift represents a catalog item givers can send.
type Gift struct {
	Name      string        `json:"name"`
	Image     string        `json:"image"`
	Animation AnimationType `json:"animationType"`
	ID        int64         `json:"id"`
	Price     int64         `json:"price"` // неотрицательная цена в условных единицах
	IsVisible bool          `json:"isVisible"`
}

// Giver represents a registered audience member.
// Phone является естественным ключом дедупликации: повторная регистрация
// с тем же номером возвращает существующую запись.
type Giver struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar,omitempty"` // data URL или пустая строка
	RealName   string `json:"realName"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

// GiftEvent is an immutable record of one giver sending one gift
// to the team on stage at that moment. Events are append-only and
// are never mutated after creation.
type GiftEvent struct {
	ID        string `json:"id"`
	GiverID   string `json:"giverId"`
	Message   string `json:"message,omitempty"` // произвольный текст, максимум 50 символов
	TeamID    int64  `json:"teamId"`
	GiftID    int64  `json:"giftId"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// CloneTeams возвращает независимую копию списка команд.
func CloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// CloneGifts возвращает независимую копию каталога подарков.
func CloneGifts(gifts []Gift) []Gift {
	if gifts == nil {
		return nil
	}
	out := make([]Gift, len(gifts))
	copy(out, gifts)
	return out
}

// CloneGivers возвращает независимую копию списка дарителей.
func CloneGivers(givers []Giver) []Giver {
	if givers == nil {
		return nil
	}
	out := make([]Giver, len(givers))
	copy(out, givers)
	return out
}

// CloneEvents возвращает независимую копию журнала событий.
func CloneEvents(events []GiftEvent) []GiftEvent {
	if events == nil {
		return nil
	}
	out := make([]GiftEvent, len(events))
	copy(out, events)
	return out
}

// CloneTeamID копирует nullable указатель на id команды.
func CloneTeamID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
