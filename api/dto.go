package api

import (
	"imahima/domain"
	"imahima/domain/event"
	"imahima/services"
	"time"

	"github.com/samber/lo"
)

type registerMemberRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarRef   string `json:"avatarRef"`
}

type setStatusRequest struct {
	Status     string `json:"status"`
	TTLSeconds int64  `json:"ttlSeconds"`
}

type connectRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

type pokeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type memberResponse struct {
	ID          domain.MemberID `json:"id"`
	DisplayName string          `json:"displayName"`
	AvatarRef   string          `json:"avatarRef,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type presenceResponse struct {
	MemberID  domain.MemberID `json:"memberId"`
	Status    domain.Status   `json:"status"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type edgeResponse struct {
	Subject   domain.MemberID `json:"subject"`
	Observer  domain.MemberID `json:"observer"`
	Visible   bool            `json:"visible"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type outcomeResponse struct {
	RecipientID domain.MemberID       `json:"recipientId"`
	Self        bool                  `json:"self,omitempty"`
	Status      domain.DeliveryStatus `json:"status"`
	Reason      string                `json:"reason,omitempty"`
}

type reportResponse struct {
	Delivered int               `json:"delivered"`
	Failed    int               `json:"failed"`
	Outcomes  []outcomeResponse `json:"outcomes"`
}

type statusChangeResponse struct {
	Presence      presenceResponse `json:"presence"`
	Changed       bool             `json:"changed"`
	Notifications *reportResponse  `json:"notifications,omitempty"`
	Warning       string           `json:"warning,omitempty"`
}

type connectResponse struct {
	Created bool `json:"created"`
}

type observersResponse struct {
	Observers []domain.MemberID `json:"observers"`
}

type feedEntryResponse struct {
	Member   memberResponse   `json:"member"`
	Presence presenceResponse `json:"presence"`
}

type feedResponse struct {
	Self      presenceResponse    `json:"self"`
	Available []feedEntryResponse `json:"available"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// streamFrame is one websocket text frame.
type streamFrame struct {
	Type      event.Type      `json:"type"`
	MemberID  domain.MemberID `json:"memberId"`
	PeerID    domain.MemberID `json:"peerId,omitempty"`
	At        time.Time       `json:"at"`
	Status    domain.Status   `json:"status,omitempty"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	Expired   bool            `json:"expired,omitempty"`
	Visible   *bool           `json:"visible,omitempty"`
}

func toMemberResponse(m domain.Member) memberResponse {
	return memberResponse{ID: m.ID, DisplayName: m.DisplayName, AvatarRef: m.AvatarRef, CreatedAt: m.CreatedAt}
}

func toPresenceResponse(p domain.PresenceRecord) presenceResponse {
	return presenceResponse{MemberID: p.MemberID, Status: p.Status, ExpiresAt: p.ExpiresAt, UpdatedAt: p.UpdatedAt}
}

func toEdgeResponse(e domain.Edge) edgeResponse {
	return edgeResponse{
		Subject:   e.Subject,
		Observer:  e.Observer,
		Visible:   e.Visible,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toReportResponse(r domain.DispatchReport) reportResponse {
	return reportResponse{
		Delivered: r.Delivered,
		Failed:    r.Failed,
		Outcomes: lo.Map(r.Outcomes, func(o domain.DeliveryOutcome, _ int) outcomeResponse {
			return outcomeResponse{
				RecipientID: o.Event.RecipientID,
				Self:        o.Event.Self,
				Status:      o.Status,
				Reason:      o.Reason,
			}
		}),
	}
}

func toStatusChangeResponse(a services.Announcement) statusChangeResponse {
	resp := statusChangeResponse{
		Presence: toPresenceResponse(a.Change.Current),
		Changed:  a.Change.Changed(),
		Warning:  a.Warning,
	}
	if a.Report != nil {
		resp.Notifications = lo.ToPtr(toReportResponse(*a.Report))
	}
	return resp
}

func toFeedResponse(f services.Feed) feedResponse {
	return feedResponse{
		Self: toPresenceResponse(f.Self),
		Available: lo.Map(f.Available, func(e services.FeedEntry, _ int) feedEntryResponse {
			return feedEntryResponse{Member: toMemberResponse(e.Member), Presence: toPresenceResponse(e.Record)}
		}),
	}
}

// toStreamFrame renders a domain event. Unknown events are skipped.
func toStreamFrame(evt event.DomainEvent) (streamFrame, bool) {
	frame := streamFrame{Type: evt.Type(), At: evt.OccurredAt()}
	switch e := evt.(type) {
	case event.PresenceChanged:
		frame.MemberID = e.Record.MemberID
		frame.Status = e.Record.Status
		frame.ExpiresAt = e.Record.ExpiresAt
		frame.Expired = e.Expired
	case event.VisibilityChanged:
		frame.MemberID = e.Edge.Subject
		frame.PeerID = e.Edge.Observer
		frame.Visible = lo.ToPtr(e.Edge.Visible)
	case event.ConnectionCreated:
		frame.MemberID = e.A
		frame.PeerID = e.B
	case event.PokeReceived:
		frame.MemberID = e.From
		frame.PeerID = e.To
	default:
		return streamFrame{}, false
	}
	return frame, true
}
