package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client клиент для работы с CatalogService
// CatalogService владеет справочниками барбершопов и услуг
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CatalogService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetShop получает барбершоп по ID
func (c *Client) GetShop(ctx context.Context, shopID int64) (*Shop, error) {
	url := fmt.Sprintf("%s/internal/shops/%d", c.baseURL, shopID)

	var shop Shop
	if err := c.getJSON(ctx, url, &shop, ErrShopNotFound); err != nil {
		return nil, err
	}

	return &shop, nil
}

// GetServices получает услуги барбершопа по списку ID
// Возвращает ErrServiceNotFound, если хотя бы одна услуга не найдена
// или принадлежит другому барбершопу
func (c *Client) GetServices(ctx context.Context, shopID int64, serviceIDs []int64) ([]Service, error) {
	ids := make([]string, len(serviceIDs))
	for i, id := range serviceIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	url := fmt.Sprintf("%s/internal/shops/%d/services?ids=%s", c.baseURL, shopID, strings.Join(ids, ","))

	var services []Service
	if err := c.getJSON(ctx, url, &services, ErrServiceNotFound); err != nil {
		return nil, err
	}

	// Сервис каталога может молча пропустить несуществующие ID
	if len(services) != len(serviceIDs) {
		return nil, ErrServiceNotFound
	}
	for _, svc := range services {
		if svc.ShopID != shopID {
			return nil, ErrServiceNotFound
		}
	}

	return services, nil
}

// getJSON выполняет GET-запрос и декодирует JSON-ответ
// notFound возвращается при статусе 404
func (c *Client) getJSON(ctx context.Context, url string, dest interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
