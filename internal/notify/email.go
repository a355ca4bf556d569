package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailConfig configures SES delivery.
type EmailConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Region           string `mapstructure:"region"`
	From             string `mapstructure:"from"`
	ConfigurationSet string `mapstructure:"configuration_set"`
}

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SESSender sends reports as raw MIME email through Amazon SES.
type SESSender struct {
	client    SESAPI
	from      string
	configSet string
}

// NewSESSender loads the default AWS credential chain for cfg.Region.
func NewSESSender(ctx context.Context, cfg EmailConfig) (*SESSender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("email sender address is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	s := NewSESSenderWithClient(ses.NewFromConfig(awsCfg), cfg.From)
	s.configSet = cfg.ConfigurationSet
	return s, nil
}

// NewSESSenderWithClient uses an existing client.
func NewSESSenderWithClient(client SESAPI, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

func (s *SESSender) Name() string { return "email" }

// Accepts reports whether to parses as a bare email address.
func (s *SESSender) Accepts(to string) bool {
	addr, err := mail.ParseAddress(to)
	return err == nil && addr.Address == strings.TrimSpace(to)
}

func (s *SESSender) Send(ctx context.Context, d Delivery) error {
	raw, err := BuildMIME(s.from, d, "")
	if err != nil {
		return err
	}

	input := &ses.SendRawEmailInput{
		Source:       aws.String(s.from),
		Destinations: []string{d.To},
		RawMessage:   &types.RawMessage{Data: raw},
	}
	if s.configSet != "" {
		input.ConfigurationSetName = aws.String(s.configSet)
	}

	if _, err := s.client.SendRawEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send to %s: %w", d.To, err)
	}
	return nil
}

// BuildMIME renders d as a multipart/mixed message with a text body and
// the attachment. An empty boundary is generated randomly.
func BuildMIME(from string, d Delivery, boundary string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if boundary != "" {
		if err := mw.SetBoundary(boundary); err != nil {
			return nil, fmt.Errorf("mime boundary: %w", err)
		}
	}

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"8bit"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(d.Body)); err != nil {
		return nil, err
	}

	if len(d.Attachment.Data) > 0 {
		ct := d.Attachment.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		att, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {mime.FormatMediaType(ct, map[string]string{"name": d.Attachment.Filename})},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": d.Attachment.Filename})},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64Lines(att, d.Attachment.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", d.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", d.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func writeBase64Lines(w io.Writer, data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 76 {
		if _, err := fmt.Fprintf(w, "%s\r\n", enc[:76]); err != nil {
			return err
		}
		enc = enc[76:]
	}
	_, err := fmt.Fprintf(w, "%s\r\n", enc)
	return err
}
