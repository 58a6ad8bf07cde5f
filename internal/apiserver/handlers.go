package apiserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// route
//
//	@Summary		compute the fastest route through an ordered list of coordinates
//	@Description	compute the fastest route through an ordered list of coordinates, optionally with turn-by-turn guidance
//	@Tags			navigation
//	@Param			body	body	RouteRequest	true	"route request"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/v1/route [post]
//	@Success		200	{object}	RouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *handler) route(w http.ResponseWriter, r *http.Request) {
	data := &RouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidationResponse(err))
		return
	}

	res, err := h.svc.Route(r.Context(), RouteQuery{
		Waypoints:    toWaypointQueries(data.Coordinates),
		Steps:        data.Steps,
		Alternatives: data.Alternatives,
	})
	if err != nil {
		render.Render(w, r, ErrServiceResponse(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, renderRoute(res))
}

// table
//
//	@Summary		compute a many-to-many travel-duration matrix
//	@Tags			navigation
//	@Param			body	body	TableRequest	true	"table request"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/v1/table [post]
//	@Success		200	{object}	TableResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *handler) table(w http.ResponseWriter, r *http.Request) {
	data := &TableRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidationResponse(err))
		return
	}

	res, err := h.svc.Table(r.Context(), TableQuery{
		Waypoints: toWaypointQueries(data.Coordinates),
		Sources:   data.Sources,
		Targets:   data.Targets,
	})
	if err != nil {
		render.Render(w, r, ErrServiceResponse(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TableResponse{Durations: res.Durations})
}

// nearest
//
//	@Summary		snap a coordinate to the nearest road segment(s)
//	@Tags			navigation
//	@Param			body	body	NearestRequest	true	"nearest request"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/v1/nearest [post]
//	@Success		200	{object}	NearestResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *handler) nearest(w http.ResponseWriter, r *http.Request) {
	data := &NearestRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidationResponse(err))
		return
	}

	res, err := h.svc.Nearest(r.Context(), NearestQuery{
		Coordinate: Coordinate{Lat: data.Lat, Lon: data.Lon},
		Number:     data.Number,
	})
	if err != nil {
		render.Render(w, r, ErrServiceResponse(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, renderNearest(res))
}

// match
//
//	@Summary		map-match a noisy GPS trace onto the road network
//	@Tags			navigation
//	@Param			body	body	MatchRequest	true	"match request"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/v1/match [post]
//	@Success		200	{object}	MatchResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *handler) match(w http.ResponseWriter, r *http.Request) {
	data := &MatchRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidationResponse(err))
		return
	}

	res, err := h.svc.Match(r.Context(), MatchQuery{Trace: data.toTrace()})
	if err != nil {
		render.Render(w, r, ErrServiceResponse(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, renderMatch(res))
}

// trip
//
//	@Summary		solve an approximate shortest round trip over a coordinate set
//	@Tags			navigation
//	@Param			body	body	TripRequest	true	"trip request"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/v1/trip [post]
//	@Success		200	{object}	TripResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *handler) trip(w http.ResponseWriter, r *http.Request) {
	data := &TripRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidationResponse(err))
		return
	}

	res, err := h.svc.Trip(r.Context(), data.toQuery())
	if err != nil {
		render.Render(w, r, ErrServiceResponse(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TripResponse{WaypointOrder: res.Order, Distance: res.Distance})
}

// tile
//
//	@Summary		fetch the road segments overlapping one XYZ slippy-map tile
//	@Tags			navigation
//	@Param			z	path	int	true	"zoom"
//	@Param			x	path	int	true	"tile column"
//	@Param			y	path	int	true	"tile row"
//	@Produce		application/json
//	@Router			/api/v1/tile/{z}/{x}/{y} [get]
//	@Success		200	{object}	TileResult
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *handler) tile(w http.ResponseWriter, r *http.Request) {
	z, errZ := strconv.Atoi(chi.URLParam(r, "z"))
	x, errX := strconv.Atoi(chi.URLParam(r, "x"))
	y, errY := strconv.Atoi(chi.URLParam(r, "y"))
	if errZ != nil || errX != nil || errY != nil {
		render.Render(w, r, ErrInvalidRequest(ErrInvalidInput))
		return
	}

	res, err := h.svc.Tile(r.Context(), z, x, y)
	if err != nil {
		render.Render(w, r, ErrServiceResponse(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}
