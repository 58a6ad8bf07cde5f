package apiserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/matching"
	"github.com/zummach/osrm/internal/spatial"
)

// validate and its translator are package-level, mirroring the teacher's
// per-request validator.New() call but built once since neither type
// holds per-request state.
var (
	validate  = validator.New()
	transEN   ut.Translator
	translate = func() ut.Translator {
		english := en.New()
		uni := ut.New(english, english)
		t, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, t)
		return t
	}()
)

func init() { transEN = translate }

// ErrResponse is the teacher's render.Renderer error envelope
// (pkg/server/mm_rest/handlers.go), generalized with nothing added: the
// six operations share the exact same error shape.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	ErrorText     string   `json:"error,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "Invalid request.", ErrorText: err.Error()}
}

func ErrValidationResponse(err error) render.Renderer {
	var vv []string
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			vv = append(vv, fe.Translate(transEN))
		}
	} else {
		vv = []string{err.Error()}
	}
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "Invalid request.", ErrorText: err.Error(), ErrValidation: vv}
}

func ErrInternalServerError(err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError, StatusText: "Internal server error.", ErrorText: err.Error()}
}

// ErrServiceResponse maps a Service-layer error to the §7 taxonomy's
// response code via errors.Is, the "apiserver layer maps sentinel errors
// to the response codes of §6/§7" rule. Falls back to 500 for anything
// unrecognized rather than leaking an internal error message.
func ErrServiceResponse(err error) render.Renderer {
	switch {
	case errors.Is(err, chsearch.ErrNoRoute):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusOK, StatusText: "NoRoute", ErrorText: "no route found between the given coordinates"}
	case errors.Is(err, spatial.ErrNoSegment):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusOK, StatusText: "NoSegment", ErrorText: "no road segment found near the given coordinate"}
	case errors.Is(err, matching.ErrEmptyTrace):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "InvalidInput", ErrorText: err.Error()}
	case errors.Is(err, ErrInvalidInput):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "InvalidInput", ErrorText: err.Error()}
	case errors.Is(err, artifact.ErrIncompatibleVersion):
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusServiceUnavailable, StatusText: "IncompatibleDataset", ErrorText: err.Error()}
	default:
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError, StatusText: "InternalError", ErrorText: "internal server error"}
	}
}
