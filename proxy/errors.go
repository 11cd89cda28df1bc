package proxy

import "fmt"

// NotImplemented is raised by duck adapter members without a compatible target member
type NotImplemented struct {
	Type   string
	Member string
}

func (e *NotImplemented) Error() string {
	return fmt.Sprintf("missing implementation: %v.%v", e.Type, e.Member)
}
