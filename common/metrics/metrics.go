package metrics

import (
	"net/http"

	"github.com/arl/statsviz"
)

// Handler returns a mux serving the statsviz dashboard under /debug/statsviz/.
func Handler() (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}
