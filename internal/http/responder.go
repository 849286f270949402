package http

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/example/capacity-planner/internal/application"
	"github.com/example/capacity-planner/internal/persistence"
)

var (
	errBadRequestBody = errors.New("無効なリクエスト形式です。")
	errInvalidUserID  = errors.New("無効なユーザー ID です。")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: cmp.Or(logger, slog.Default())}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) writeValidation(ctx context.Context, w http.ResponseWriter, vErr *application.ValidationError) {
	r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
		ErrorCode: "VALIDATION_FAILED",
		Message:   "入力内容に誤りがあります。",
		Errors:    localizeValidationErrors(vErr),
	})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var vErr *application.ValidationError
	switch {
	case errors.As(err, &vErr):
		r.writeValidation(ctx, w, vErr)
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			ErrorCode: "NOT_FOUND",
			Message:   "指定されたリソースが見つかりません。",
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, persistence.ErrBusy):
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Message: localizedStatusMessage(http.StatusServiceUnavailable)})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err, "error_kind", application.ErrorKind(err))
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "サーバー内部でエラーが発生しました。"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	return cmp.Or(LoggerFromContext(ctx), r.logger)
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusNotFound:
		return "指定されたリソースが見つかりません。"
	case http.StatusMethodNotAllowed:
		return "許可されていないメソッドです。"
	case http.StatusUnprocessableEntity:
		return "入力内容に誤りがあります。"
	case http.StatusServiceUnavailable:
		return "処理を完了できませんでした。しばらくしてから再度お試しください。"
	default:
		return "サーバー内部でエラーが発生しました。"
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

var (
	rangeMessage   = regexp.MustCompile(`^must be between (\S+) and (\S+)$`)
	oneOfMessage   = regexp.MustCompile(`^must be one of (.+)$`)
	afterMessage   = regexp.MustCompile(`^must be after (\S+)$`)
	invalidMessage = regexp.MustCompile(`^cannot differ from (\S+)$`)
)

func translateValidationMessage(message string) string {
	switch message {
	case "is required":
		return "必須項目です。"
	case "must be HH:MM":
		return "時刻は HH:MM 形式で指定してください。"
	case "must be HH:MM-HH:MM with start before end":
		return "時間帯は HH:MM-HH:MM 形式で、開始を終了より前にしてください。"
	case "must be YYYY-MM-DD":
		return "日付は YYYY-MM-DD 形式で指定してください。"
	case "must be RFC 3339 or YYYY-MM-DD":
		return "日時は RFC 3339 または YYYY-MM-DD 形式で指定してください。"
	case "must be positive":
		return "正の値を指定してください。"
	case "must be an array":
		return "配列で指定してください。"
	case "must not be negative":
		return "負の値は指定できません。"
	case "must be a JSON object":
		return "JSON オブジェクトで指定してください。"
	case "unknown user type":
		return "不明なユーザー種別です。"
	case "constraint name is required":
		return "制約名は必須です。"
	}

	if m := rangeMessage.FindStringSubmatch(message); m != nil {
		return m[1] + " から " + m[2] + " の範囲で指定してください。"
	}
	if m := oneOfMessage.FindStringSubmatch(message); m != nil {
		return "次のいずれかを指定してください: " + m[1]
	}
	if m := afterMessage.FindStringSubmatch(message); m != nil {
		return m[1] + " より後である必要があります。"
	}
	if m := invalidMessage.FindStringSubmatch(message); m != nil {
		return m[1] + " と異なる値は指定できません。"
	}
	return message
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
