package services

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/trailfire/server/internal/config"
	"github.com/dpup/trailfire/server/internal/lib/trail"
	"github.com/dpup/trailfire/server/internal/metrics"
)

// twimlResponse is the messaging reply understood by the SMS gateway
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// SMSService answers inbound text messages with the cached report of the
// trail named in the message body
type SMSService struct {
	tracker   *FireTracker
	resolver  *trail.Resolver
	maxLength int
	helpText  string
}

// NewSMSService creates an SMS responder. The help text lists trail codes in
// the tracker's configured order.
func NewSMSService(tracker *FireTracker, resolver *trail.Resolver, cfg config.SMSConfig) *SMSService {
	return &SMSService{
		tracker:   tracker,
		resolver:  resolver,
		maxLength: cfg.MaxLength,
		helpText:  HelpText(tracker.Codes()),
	}
}

// HelpText is the reply sent when no supported trail is named
func HelpText(codes []string) string {
	var list string
	switch len(codes) {
	case 0:
	case 1:
		list = codes[0]
	default:
		list = strings.Join(codes[:len(codes)-1], ", ") + ", or " + codes[len(codes)-1]
	}
	return "Sorry, we could not find a supported trail name in your message.\n" +
		"Please enter one of the following: " + list + "\n" +
		"More trails are forthcoming!"
}

// Reply returns the report for the first trail named in body, or the help text
func (s *SMSService) Reply(body string) (reply string, matched bool) {
	code, ok := s.resolver.Resolve(body)
	if !ok {
		return s.helpText, false
	}
	if !s.tracker.Tracks(code) {
		return s.helpText, false
	}
	return truncate(s.tracker.GetReport(code), s.maxLength), true
}

// HandleSMS is the inbound message webhook. The body arrives as the form
// field "Body" and the reply is returned as TwiML.
func (s *SMSService) HandleSMS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		metrics.SMSRequestsTotal.WithLabelValues("bad_request").Inc()
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	ctx := logging.EnsureLogger(r.Context())
	reply, matched := s.Reply(r.PostForm.Get("Body"))
	outcome := "help"
	if matched {
		outcome = "report"
	}
	metrics.SMSRequestsTotal.WithLabelValues(outcome).Inc()
	logging.Infow(ctx, "SMS request", "outcome", outcome)

	data, err := xml.Marshal(twimlResponse{Message: reply})
	if err != nil {
		logging.Errorw(ctx, "Failed to encode SMS reply", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(data)
}

// HandleTest is a liveness check for the SMS gateway
func HandleTest(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("testing"))
}

// truncate shortens s to at most limit runes; zero or negative keeps everything
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
