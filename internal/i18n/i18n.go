package i18n

import (
	"context"

	"shopapi/internal/domain/model"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

const (
	LangEN = "en"
	LangVI = "vi"
)

// 先頭がフォールバック
var supported = []language.Tag{language.English, language.Vietnamese}

var matcher = language.NewMatcher(supported)

// 注文ステータスの表示名
var statusLabels = map[string]map[model.OrderStatus]string{
	LangEN: {
		model.OrderStatusPending:    "Pending",
		model.OrderStatusProcessing: "Processing",
		model.OrderStatusShipping:   "Shipping",
		model.OrderStatusDelivered:  "Delivered",
		model.OrderStatusReceived:   "Received",
		model.OrderStatusCancelled:  "Cancelled",
	},
	LangVI: {
		model.OrderStatusPending:    "Chờ xử lý",
		model.OrderStatusProcessing: "Đang xử lý",
		model.OrderStatusShipping:   "Đang giao hàng",
		model.OrderStatusDelivered:  "Đã giao hàng",
		model.OrderStatusReceived:   "Đã nhận hàng",
		model.OrderStatusCancelled:  "Đã hủy",
	},
}

// Negotiate は Accept-Language から対応言語を選ぶ。不正・未対応は en
func Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LangEN
	}
	_, idx, _ := matcher.Match(tags...)
	base, _ := supported[idx].Base()
	return base.String()
}

// StatusLabel は未知の言語なら en、未知のステータスならそのまま返す
func StatusLabel(lang string, status model.OrderStatus) string {
	table, ok := statusLabels[lang]
	if !ok {
		table = statusLabels[LangEN]
	}
	if label, ok := table[status]; ok {
		return label
	}
	return string(status)
}

type contextKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKey{}).(string); ok && lang != "" {
		return lang
	}
	return LangEN
}

// Middleware は交渉した言語をcontextに載せる
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			lang := Negotiate(req.Header.Get("Accept-Language"))
			c.SetRequest(req.WithContext(WithLang(req.Context(), lang)))
			c.Response().Header().Add("Vary", "Accept-Language")
			return next(c)
		}
	}
}

