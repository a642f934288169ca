package api

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"imahima/contract"
	"imahima/domain"
	"imahima/errors"
	"imahima/services"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/samber/lo"
)

const maxBodyBytes = 64 << 10

// maxTTLSeconds is the largest ttlSeconds that still fits a time.Duration.
const maxTTLSeconds = int64(math.MaxInt64 / int64(time.Second))

// Server exposes the presence, graph and notification operations to the UI
// over JSON, plus one websocket stream per member session.
type Server struct {
	log                  *slog.Logger
	members              services.IMemberService
	presence             services.IPresenceService
	graph                services.IGraphService
	announce             services.IAnnounceService
	registry             contract.IRegistry
	connectionBufferSize int
	writeTimeout         time.Duration
}

func NewServer(log *slog.Logger, members services.IMemberService, presence services.IPresenceService,
	graph services.IGraphService, announce services.IAnnounceService, registry contract.IRegistry,
	connectionBufferSize int, writeTimeout time.Duration) *Server {
	return &Server{
		log:                  log,
		members:              members,
		presence:             presence,
		graph:                graph,
		announce:             announce,
		registry:             registry,
		connectionBufferSize: connectionBufferSize,
		writeTimeout:         writeTimeout,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("POST /v1/members", s.registerMember)
	mux.HandleFunc("GET /v1/members", s.listMembers)
	mux.HandleFunc("GET /v1/members/{id}", s.getMember)
	mux.HandleFunc("GET /v1/members/{id}/status", s.getStatus)
	mux.HandleFunc("PUT /v1/members/{id}/status", s.setStatus)
	mux.HandleFunc("DELETE /v1/members/{id}/status", s.clearStatus)
	mux.HandleFunc("POST /v1/connections", s.connect)
	mux.HandleFunc("GET /v1/members/{id}/connections", s.connections)
	mux.HandleFunc("GET /v1/members/{id}/observers", s.observers)
	mux.HandleFunc("PUT /v1/members/{id}/visibility/{observer}", s.setVisibility)
	mux.HandleFunc("GET /v1/members/{id}/feed", s.feed)
	mux.HandleFunc("POST /v1/pokes", s.poke)
	mux.HandleFunc("GET /v1/members/{id}/stream", s.stream)
	return mux
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) registerMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if !s.decode(w, r, &req) {
		return
	}
	member, created, err := s.members.Register(r.Context(), domain.RegisterMemberCommand{
		ID:          domain.MemberID(req.ID),
		DisplayName: req.DisplayName,
		AvatarRef:   req.AvatarRef,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, lo.Ternary(created, http.StatusCreated, http.StatusOK), toMemberResponse(member))
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.members.ListMembers(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(members, func(m domain.Member, _ int) memberResponse { return toMemberResponse(m) }))
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.members.ResolveMember(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMemberResponse(member))
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	record, err := s.presence.GetStatus(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPresenceResponse(record))
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.TTLSeconds > maxTTLSeconds {
		s.writeError(w, fmt.Errorf("%w: ttlSeconds too large", errors.ErrInvalidRequest))
		return
	}
	announcement, err := s.announce.SetStatus(r.Context(), domain.SetStatusCommand{
		MemberID: pathID(r),
		Status:   domain.Status(req.Status),
		TTL:      time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toStatusChangeResponse(announcement))
}

func (s *Server) clearStatus(w http.ResponseWriter, r *http.Request) {
	announcement, err := s.announce.ClearStatus(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toStatusChangeResponse(announcement))
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !s.decode(w, r, &req) {
		return
	}
	created, err := s.announce.Connect(r.Context(), domain.ConnectCommand{A: domain.MemberID(req.A), B: domain.MemberID(req.B)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, lo.Ternary(created, http.StatusCreated, http.StatusOK), connectResponse{Created: created})
}

func (s *Server) connections(w http.ResponseWriter, r *http.Request) {
	edges, err := s.graph.ConnectionsOf(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(edges, func(e domain.Edge, _ int) edgeResponse { return toEdgeResponse(e) }))
}

func (s *Server) observers(w http.ResponseWriter, r *http.Request) {
	observers, err := s.graph.VisibleObserversOf(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, observersResponse{Observers: lo.Ternary(observers == nil, []domain.MemberID{}, observers)})
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Visible == nil {
		s.writeError(w, fmt.Errorf("%w: visible is required", errors.ErrInvalidRequest))
		return
	}
	edge, err := s.announce.SetVisibility(r.Context(), domain.SetVisibilityCommand{
		Subject:  pathID(r),
		Observer: domain.MemberID(r.PathValue("observer")),
		Visible:  *req.Visible,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toEdgeResponse(edge))
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.announce.Feed(r.Context(), pathID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toFeedResponse(feed))
}

// poke answers 502 when the message reached nobody, with the report.
func (s *Server) poke(w http.ResponseWriter, r *http.Request) {
	var req pokeRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.announce.Poke(r.Context(), domain.PokeCommand{From: domain.MemberID(req.From), To: domain.MemberID(req.To)})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, lo.Ternary(report.Delivered == 0, http.StatusBadGateway, http.StatusOK), toReportResponse(report))
}

func pathID(r *http.Request) domain.MemberID {
	return domain.MemberID(r.PathValue("id"))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("Failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case goerrors.Is(err, errors.ErrMemberNotFound), goerrors.Is(err, errors.ErrEdgeNotFound):
		return http.StatusNotFound
	case goerrors.Is(err, errors.ErrInvalidRequest),
		goerrors.Is(err, errors.ErrInvalidCommand),
		goerrors.Is(err, errors.ErrInvalidMemberID),
		goerrors.Is(err, errors.ErrInvalidStatus),
		goerrors.Is(err, errors.ErrInvalidTTL),
		goerrors.Is(err, errors.ErrSelfConnection):
		return http.StatusBadRequest
	case goerrors.Is(err, errors.ErrTransportUnavailable), goerrors.Is(err, errors.ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
