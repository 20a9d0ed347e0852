// Package mail sends transactional emails through an HTTP mail relay.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"nashr/internal/middleware"
	"nashr/internal/observability"

	"resty.dev/v3"
)

// Message is one outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrRelayRejected is returned when the relay answers with a non-2xx status.
var ErrRelayRejected = errors.New("mail relay rejected message")

// RelaySender posts messages as JSON to MAIL_API_URL.
type RelaySender struct {
	client *resty.Client
	from   string
}

// NewRelaySender builds a relay client with a bearer key.
func NewRelaySender(apiURL, apiKey, from string) *RelaySender {
	client := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	client.AddResponseMiddleware(latencyMiddleware)
	return &RelaySender{client: client, from: from}
}

func latencyMiddleware(_ *resty.Client, res *resty.Response) error {
	observability.MailRequestLatency.
		WithLabelValues(strconv.Itoa(res.StatusCode())).
		Observe(res.Duration().Seconds())
	return nil
}

// Close releases idle connections.
func (s *RelaySender) Close() error {
	return s.client.Close()
}

func (s *RelaySender) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = s.from
	}
	res, err := s.client.R().
		WithContext(ctx).
		SetBody(msg).
		Post("")
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: status %d", ErrRelayRejected, res.StatusCode())
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. Used when
// no relay is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	middleware.Logger.InfoContext(ctx, "mail not delivered (no relay configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}

// NewSender picks the relay when apiURL is set.
func NewSender(apiURL, apiKey, from string) Sender {
	if apiURL == "" {
		return LogSender{}
	}
	return NewRelaySender(apiURL, apiKey, from)
}

const (
	ResetSubject   = "بازیابی رمز عبور - مدیوم فارسی"
	WelcomeSubject = "خوش آمدید به مدیوم فارسی"
)

var resetTmpl = template.Must(template.New("reset").Parse(`<div dir="rtl" style="font-family: 'Vazirmatn', sans-serif; max-width: 600px; margin: 0 auto;">
<h1>مدیوم فارسی</h1>
<p>سلام کاربر گرامی،</p>
<p>شما درخواست بازیابی رمز عبور برای حساب کاربری خود در مدیوم فارسی داشته‌اید. برای ادامه، روی لینک زیر کلیک کنید:</p>
<p><a href="{{.Link}}">بازیابی رمز عبور</a></p>
<p>اگر شما این درخواست را نداده‌اید، لطفاً این ایمیل را نادیده بگیرید.</p>
<p>این لینک فقط برای ۲۴ ساعت معتبر است.</p>
<p>با احترام،<br>تیم مدیوم فارسی</p>
</div>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<div dir="rtl" style="font-family: 'Vazirmatn', sans-serif; max-width: 600px; margin: 0 auto;">
<h1>مدیوم فارسی</h1>
<p>{{.Name}} عزیز،</p>
<p>به مدیوم فارسی خوش آمدید! ما از اینکه به جامعه ما پیوسته‌اید بسیار خوشحالیم.</p>
<ul>
<li>مقالات خود را بنویسید و منتشر کنید</li>
<li>با نویسندگان دیگر ارتباط برقرار کنید</li>
<li>در انتشارات مختلف عضو شوید</li>
<li>محتوای باکیفیت را کشف کنید</li>
</ul>
<p><a href="{{.Link}}">شروع کنید</a></p>
<p>با احترام،<br>تیم مدیوم فارسی</p>
</div>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PasswordReset builds the reset mail pointing at {baseURL}/reset-password?token=….
func PasswordReset(to, baseURL, token string) (Message, error) {
	html, err := render(resetTmpl, struct{ Link string }{baseURL + "/reset-password?token=" + token})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: ResetSubject, HTML: html}, nil
}

// Welcome builds the mail sent after signup.
func Welcome(to, name, baseURL string) (Message, error) {
	html, err := render(welcomeTmpl, struct{ Name, Link string }{name, baseURL})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: WelcomeSubject, HTML: html}, nil
}
