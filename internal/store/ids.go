package store

import (
	"time"

	"github.com/google/uuid"
)

// NewNodeID генерирует уникальный идентификатор контекста.
// Используется для подавления собственного эха в канале репликации.
func NewNodeID() string {
	return uuid.New().String()
}

// NewGiverID генерирует уникальный id дарителя.
func NewGiverID() string {
	return "giver-" + uuid.New().String()
}

// NewEventID генерирует уникальный id события подарка.
func NewEventID() string {
	return "event-" + uuid.New().String()
}

// nextNumericID выбирает следующий числовой id для команд и подарков.
// База — текущее wall-clock время в миллисекундах (ids остаются того же
// порядка величины, что и seed-данные), но результат всегда строго больше
// любого существующего id, поэтому коллизии внутри контекста исключены.
// Одновременное создание в двух контекстах может выдать одинаковый id;
// id-keyed merge пропустит вторую вставку.
func nextNumericID(existing []int64) int64 {
	next := time.Now().UnixMilli()
	for _, id := range existing {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
