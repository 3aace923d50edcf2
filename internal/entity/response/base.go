package response

import "github.com/swharr/storm-surge/internal/constant"

type Base struct {
	Status constant.ResponseStatus `json:"status"`
	Code   int                     `json:"code,omitempty"`
	Data   interface{}             `json:"data"`
}
