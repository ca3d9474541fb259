package person

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bedspace-scheduling-backend/config"
	"bedspace-scheduling-backend/internal/model"
)

// ErrUnavailable marks a lookup that failed because the upstream service
// could not be reached or answered badly. Callers map it to a gateway-style
// failure rather than an internal one.
var ErrUnavailable = errors.New("person directory unavailable")

// Directory looks people up by reference in an upstream case-management
// service. It implements scheduling.PersonDirectory.
type Directory struct {
	baseURL string
	headers map[string]string
	client  *http.Client
}

// NewDirectory creates a person directory client from configuration.
func NewDirectory(cfg *config.PersonDirectoryConfig) *Directory {
	return &Directory{
		baseURL: cfg.URL,
		headers: cfg.Headers,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type personRecord struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
	Sex  string `json:"sex"`
}

// PersonDetails fetches the people behind the given references. References
// the upstream service does not know are simply absent from the result;
// callers decide how to degrade. A transport or decode failure is returned to
// the caller instead.
func (d *Directory) PersonDetails(ctx context.Context, refs []string) (map[string]model.Person, error) {
	persons := make(map[string]model.Person, len(refs))
	if len(refs) == 0 {
		return persons, nil
	}

	query := url.Values{}
	for _, ref := range refs {
		query.Add("ref", ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var records []personRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for _, r := range records {
		persons[r.Ref] = model.Person{
			Ref:  r.Ref,
			Name: r.Name,
			Sex:  parseSex(r.Sex),
		}
	}
	return persons, nil
}

func parseSex(s string) model.Sex {
	switch s {
	case "male":
		return model.SexMale
	case "female":
		return model.SexFemale
	default:
		return model.SexUnknown
	}
}
