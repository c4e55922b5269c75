package mailer

import (
	"bytes"
	"errors"
	"testing"

	"portfolio-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func TestSendContact(t *testing.T) {
	sender := &captureSender{}
	svc := NewEmailServiceWithSender(sender, "bot@example.com", "Portfolio", "owner@example.com", logger.NewNopLogger())

	err := svc.SendContact(ContactMessage{Name: "Eve", Email: "eve@example.com", Message: "<script>x</script> hello"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"New portfolio message from Eve"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "&lt;script&gt;", "html part is escaped")
}

func TestSendContact_Errors(t *testing.T) {
	unconfigured := NewEmailService("", 587, "", "", "Portfolio", "", logger.NewNopLogger())
	assert.ErrorIs(t, unconfigured.SendContact(ContactMessage{Name: "a"}), ErrNotConfigured)

	failing := NewEmailServiceWithSender(&captureSender{err: errors.New("smtp down")}, "bot@example.com", "P", "owner@example.com", logger.NewNopLogger())
	assert.EqualError(t, failing.SendContact(ContactMessage{Name: "a", Email: "a@b.c"}), "smtp down")
}
