package idempotency

import "time"

type State string

const (
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
)

// Record is one Idempotency-Key seen for a user. The stored response is
// replayed for repeats of the same request.
type Record struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key"`
	Key            string    `gorm:"column:idempotency_key;not null;uniqueIndex:idx_idempotency_user_key"`
	RequestHash    string    `gorm:"not null"`
	Status         State     `gorm:"not null"`
	ResponseStatus int       `gorm:"not null;default:0"`
	ResponseBody   []byte    `gorm:"column:response_body"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "idempotency_keys"
}

type Request struct {
	UserID string
	Key    string
	Method string
	Path   string
	Body   []byte
}

type Response struct {
	Status int
	Body   []byte
}

// Reservation is the outcome of Begin. Exactly one of Replay and the
// reserved ID is set.
type Reservation struct {
	ID     string
	Replay *Response
}
