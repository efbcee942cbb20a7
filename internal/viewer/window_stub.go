//go:build !cgo

package viewer

import "errors"

func RunWindow(_ Host, _ string, _, _ int) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
