package domain

import "math"

// PageRequest is a validated page selector: Page >= 1, Size in [1, 100].
type PageRequest struct {
	Page int
	Size int
}

// Offset is the number of records before the page. It saturates at math.MaxInt
// instead of overflowing, so an absurd page is simply past the end.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Size
}

type UserPage struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}
