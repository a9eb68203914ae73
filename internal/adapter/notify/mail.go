package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/channor/open-manage/internal/domain/absence"
	"github.com/channor/open-manage/internal/domain/user"

	"gopkg.in/gomail.v2"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// RecipientResolver is satisfied by *notification.Recipients.
type RecipientResolver interface {
	Recipients(ctx context.Context) ([]user.User, error)
	PersonRecipient(ctx context.Context, personID uint64) (*user.User, error)
}

// MailSink emails managers about new requests and the employee about
// decisions on theirs.
type MailSink struct {
	sender     Sender
	from       string
	recipients RecipientResolver
}

func NewMailSink(sender Sender, from string, recipients RecipientResolver) *MailSink {
	return &MailSink{sender: sender, from: from, recipients: recipients}
}

func NewSMTPDialer(host string, port int, username, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, username, password)
}

func (s *MailSink) Name() string { return "mail" }

func (s *MailSink) Deliver(ctx context.Context, e absence.Event) error {
	to, err := s.addresses(ctx, e)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return fmt.Errorf("%w: no email address for %s", absence.ErrNoRecipientFound, e.Type)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject(e))
	m.SetBody("text/plain", body(e))

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail for %s: %w", e.ID, err)
	}
	return nil
}

func (s *MailSink) addresses(ctx context.Context, e absence.Event) ([]string, error) {
	switch e.Type {
	case absence.EventRequested:
		list, err := s.recipients.Recipients(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(list))
		for _, u := range list {
			if u.Email != "" {
				out = append(out, u.Email)
			}
		}
		return out, nil
	case absence.EventStatusUpdated:
		u, err := s.recipients.PersonRecipient(ctx, e.Absence.PersonID)
		if err != nil {
			return nil, err
		}
		if u.Email == "" {
			return nil, nil
		}
		return []string{u.Email}, nil
	}
	return nil, fmt.Errorf("unsupported event type %q", e.Type)
}

func subject(e absence.Event) string {
	if e.Type == absence.EventRequested {
		return "New absence request"
	}
	return "Absence request " + string(e.Absence.Status)
}

func body(e absence.Event) string {
	a := e.Absence
	var b strings.Builder
	if e.Type == absence.EventRequested {
		b.WriteString("A new absence has been requested.\n\n")
	} else {
		fmt.Fprintf(&b, "Your absence request has been %s.\n\n", a.Status)
	}
	fmt.Fprintf(&b, "Reference: %s\n", a.AbsenceID)
	if a.AbsenceType != nil {
		fmt.Fprintf(&b, "Type: %s\n", a.AbsenceType.Name)
	}
	fmt.Fprintf(&b, "From: %s\n", a.StartDate.Format("2006-01-02"))
	if a.EndDate != nil {
		fmt.Fprintf(&b, "To: %s\n", a.EndDate.Format("2006-01-02"))
	}
	if a.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", a.Notes)
	}
	return b.String()
}
