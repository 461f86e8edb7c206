package userprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Amund211/suspense/internal/constants"
	"github.com/Amund211/suspense/internal/domain"
	"github.com/Amund211/suspense/internal/logging"
	"github.com/Amund211/suspense/internal/ratelimiting"
	"github.com/Amund211/suspense/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type jsonPlaceholderMetricsCollection struct {
	requestCount metric.Int64Counter
}

func setupJSONPlaceholderMetrics(meter metric.Meter) (jsonPlaceholderMetricsCollection, error) {
	requestCount, err := meter.Int64Counter("userprovider/jsonplaceholder/request_count")
	if err != nil {
		return jsonPlaceholderMetricsCollection{}, fmt.Errorf("failed to create request count metric: %w", err)
	}

	return jsonPlaceholderMetricsCollection{
		requestCount: requestCount,
	}, nil
}

type JSONPlaceholder struct {
	httpClient HttpClient
	baseURL    string
	limiter    ratelimiting.RateLimiter

	metrics jsonPlaceholderMetricsCollection
	tracer  trace.Tracer
}

func NewJSONPlaceholder(httpClient HttpClient, baseURL string, limiter ratelimiting.RateLimiter) (*JSONPlaceholder, error) {
	const name = "suspense/userprovider/jsonplaceholder"

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	metrics, err := setupJSONPlaceholderMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &JSONPlaceholder{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    limiter,

		metrics: metrics,
		tracer:  otel.Tracer(name),
	}, nil
}

func (p *JSONPlaceholder) GetUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := p.tracer.Start(ctx, "JSONPlaceholder.GetUsers")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/users", nil)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)

	if err := p.limiter.Wait(ctx, req.URL.Host); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "Did not run JSONPlaceholder.GetUsers due to rate limiting", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrTemporarilyUnavailable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to send request: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("failed to read response body: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	p.metrics.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("status_code", resp.StatusCode),
	))

	users, err := usersFromResponse(resp.StatusCode, data)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrTemporarilyUnavailable) {
			// Pass through error but don't report
			return nil, err
		}

		err := fmt.Errorf("failed to get users from response: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"data":   string(data),
			"status": strconv.Itoa(resp.StatusCode),
		})
		return nil, err
	}

	logging.FromContext(ctx).InfoContext(ctx, "Got users", "count", len(users))

	return users, nil
}

type addressResponse struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

type companyResponse struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

type userResponse struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Address  addressResponse `json:"address"`
	Phone    string          `json:"phone"`
	Website  string          `json:"website"`
	Company  companyResponse `json:"company"`
}

func usersFromResponse(statusCode int, data []byte) ([]domain.User, error) {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: users API returned status code %d", domain.ErrTemporarilyUnavailable, statusCode)
	case http.StatusNotFound:
		return nil, domain.ErrUserNotFound
	}

	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("users API returned status code %d", statusCode)
	}

	var response []userResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse users response: %w", err)
	}

	users := make([]domain.User, 0, len(response))
	for _, user := range response {
		users = append(users, domain.User{
			ID:       user.ID,
			Name:     user.Name,
			Username: user.Username,
			Email:    user.Email,
			Address: domain.Address{
				Street:  user.Address.Street,
				Suite:   user.Address.Suite,
				City:    user.Address.City,
				Zipcode: user.Address.Zipcode,
			},
			Phone:   user.Phone,
			Website: user.Website,
			Company: domain.Company{
				Name:        user.Company.Name,
				CatchPhrase: user.Company.CatchPhrase,
				BS:          user.Company.BS,
			},
		})
	}

	return users, nil
}
