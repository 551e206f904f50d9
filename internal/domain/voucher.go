package domain

import "time"

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

const (
	VoucherActive   = 1
	VoucherInactive = 0
)

type Voucher struct {
	ID             int64        `json:"id"`
	Code           string       `json:"code"`
	Description    string       `json:"description,omitempty"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountAmount int64        `json:"discountAmount"`
	MinOrder       int64        `json:"minOrder"`
	Quantity       int          `json:"quantity"`
	UsageLimit     int          `json:"usageLimit"`
	UsedCount      int          `json:"usedCount"`
	StartDate      *time.Time   `json:"startDate,omitempty"`
	EndDate        *time.Time   `json:"endDate,omitempty"`
	Status         int          `json:"status"`
}
