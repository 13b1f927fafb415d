package group

import (
	"time"

	"expensezen/internal/domain/money"
)

type GroupBudget struct {
	ID          string      `gorm:"type:uuid;primaryKey"`
	Title       string      `gorm:"not null"`
	TotalAmount money.Money `gorm:"type:bigint;not null"`
	PerHead     money.Money `gorm:"type:bigint;not null"`
	CreatedBy   string      `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`

	Members []Member `gorm:"foreignKey:GroupBudgetID;references:ID;constraint:OnDelete:CASCADE"`
}

// Member is one participant of a group budget. Position keeps the order in
// which members were submitted.
type Member struct {
	GroupBudgetID string      `gorm:"type:uuid;primaryKey"`
	UserID        string      `gorm:"type:uuid;primaryKey;index"`
	Position      int         `gorm:"not null"`
	Paid          bool        `gorm:"not null;default:false"`
	PaidAmount    money.Money `gorm:"type:bigint;not null;default:0"`
	PaidAt        *time.Time  `gorm:"column:paid_at"`
}

func (Member) TableName() string {
	return "group_budget_members"
}

func (g *GroupBudget) Member(userID string) (*Member, bool) {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i], true
		}
	}
	return nil, false
}

func (g *GroupBudget) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// Collected is the sum of all recorded payments.
func (g *GroupBudget) Collected() money.Money {
	var total money.Money
	for _, m := range g.Members {
		if m.Paid {
			total = total.Add(m.PaidAmount)
		}
	}
	return total
}

type CreateGroupBudgetInput struct {
	CreatorID   string
	Title       string
	TotalAmount money.Money
	PerHead     money.Money
	MemberIDs   []string
}
