package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hatlonely/gridx/cfg/validator"
	"github.com/hatlonely/gridx/grid"
	"github.com/hatlonely/gridx/query"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HTTPOptions 对接如下接口：
//
//	GET    {endpoint}/{entity}              全部记录
//	GET    {endpoint}/{entity}/{id}         单条记录
//	POST   {endpoint}/{entity}              创建
//	PATCH  {endpoint}/{entity}/{id}         部分更新
//	DELETE {endpoint}/{entity}/{id}         删除
//	POST   {endpoint}/{entity}/bulk-delete  {"ids": [...]} -> {"deleted": [...]}
//	POST   {endpoint}/{entity}/search       {"query": <es query>} -> 记录列表
//
// 非 2xx 响应的 JSON {"message": "..."} 作为错误信息
type HTTPOptions struct {
	Endpoint string            `cfg:"endpoint" validate:"required,url"`
	Entity   string            `cfg:"entity" validate:"required"`
	Timeout  time.Duration     `cfg:"timeout" def:"10s"`
	Headers  map[string]string `cfg:"headers"`
}

type HTTPRepository struct {
	client  *http.Client
	base    string
	headers map[string]string
	tracer  trace.Tracer
}

func NewHTTPRepositoryWithOptions(options *HTTPOptions) (*HTTPRepository, error) {
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validator.ValidateStruct failed")
	}
	timeout := options.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPRepository{
		client:  &http.Client{Timeout: timeout},
		base:    strings.TrimRight(options.Endpoint, "/") + "/" + url.PathEscape(options.Entity),
		headers: options.Headers,
		tracer:  otel.Tracer(Namespace),
	}, nil
}

func (r *HTTPRepository) FetchAll(ctx context.Context) ([]grid.Row, error) {
	var rows []grid.Row
	if err := r.do(ctx, http.MethodGet, "", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *HTTPRepository) FetchByID(ctx context.Context, id string) (grid.Row, error) {
	var row grid.Row
	if err := r.do(ctx, http.MethodGet, "/"+url.PathEscape(id), nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *HTTPRepository) Find(ctx context.Context, q query.Query) ([]grid.Row, error) {
	body := map[string]any{}
	if q != nil {
		body["query"] = q.ToES()
	}
	var rows []grid.Row
	if err := r.do(ctx, http.MethodPost, "/search", body, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *HTTPRepository) Create(ctx context.Context, data grid.Row) (grid.Row, error) {
	var row grid.Row
	if err := r.do(ctx, http.MethodPost, "", data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *HTTPRepository) Update(ctx context.Context, id string, partial grid.Row) (grid.Row, error) {
	var row grid.Row
	if err := r.do(ctx, http.MethodPatch, "/"+url.PathEscape(id), partial, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *HTTPRepository) Delete(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil, nil)
}

func (r *HTTPRepository) BulkDelete(ctx context.Context, ids []string) ([]string, error) {
	var res struct {
		Deleted []any `json:"deleted"`
	}
	if err := r.do(ctx, http.MethodPost, "/bulk-delete", map[string]any{"ids": ids}, &res); err != nil {
		return nil, err
	}
	// 没有返回 deleted 时视为全部删除
	if res.Deleted == nil {
		return append([]string(nil), ids...), nil
	}
	deleted := make([]string, 0, len(res.Deleted))
	for _, v := range res.Deleted {
		deleted = append(deleted, grid.FormatID(v))
	}
	return deleted, nil
}

func (r *HTTPRepository) do(ctx context.Context, method string, path string, body any, out any) (err error) {
	target := r.base + path
	ctx, span := r.tracer.Start(ctx, "repository.http "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", target),
		),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "json.Marshal failed")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "http.NewRequestWithContext failed")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return unavailable(err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &NetworkError{Status: res.StatusCode, Message: errorMessage(res.StatusCode, payload)}
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &NetworkError{Status: res.StatusCode, Message: "invalid response body: " + err.Error(), Err: err}
	}
	return nil
}

func errorMessage(status int, payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if text := strings.TrimSpace(string(payload)); text != "" && len(text) <= 256 {
		return text
	}
	return http.StatusText(status)
}
