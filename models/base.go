package models

type PaginationQuery struct {
	PageNum  int `form:"pageNum" json:"pageNum"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

type PaginationResult struct {
	Items    interface{} `json:"items"`
	Total    int64       `form:"total" json:"total"`
	PageNum  int         `form:"pageNum" json:"pageNum"`
	PageSize int         `form:"pageSize" json:"pageSize"`
}

// NewPaginationResult creates a new pagination result object
func NewPaginationResult(items interface{}, total int64, pageNum, pageSize int) PaginationResult {
	return PaginationResult{
		Items:    items,
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
	}
}

// Normalize clamps the query to sane defaults
func (q *PaginationQuery) Normalize() {
	if q.PageNum < 1 {
		q.PageNum = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
}
