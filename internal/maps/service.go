package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/config"
	"jobboard_backend/platform/logger"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	userAgent           = "JobBoard/1.0"
	resultLimit         = "5"
)

type Service struct {
	client       *http.Client
	endpoint     string
	countryCodes string
	log          *logger.Logger
}

func NewService(cfg config.MapsConfig, log *logger.Logger) *Service {
	endpoint := cfg.GetNominatimURL()
	if endpoint == "" {
		endpoint = defaultNominatimURL
	}
	return &Service{
		client:       &http.Client{Timeout: 5 * time.Second},
		endpoint:     endpoint,
		countryCodes: cfg.GetNominatimCountryCodes(),
		log:          log,
	}
}

func (s *Service) SearchAddress(ctx context.Context, query string) ([]AddressSuggestion, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("addressdetails", "1")
	params.Add("limit", resultLimit)
	if s.countryCodes != "" {
		params.Add("countrycodes", s.countryCodes)
	}

	reqURL := fmt.Sprintf("%s?%s", s.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to build address lookup request", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("nominatim request failed", "error", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "address lookup service unavailable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("nominatim upstream error", "status", resp.StatusCode)
		return nil, apperr.Wrap(apperr.KindUnavailable, "address lookup service unavailable",
			fmt.Errorf("upstream api error: %d", resp.StatusCode))
	}

	var rawResults []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		s.log.Error("failed to decode nominatim payload", "error", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "address lookup service unavailable", err)
	}

	suggestions := make([]AddressSuggestion, 0, len(rawResults))
	for _, raw := range rawResults {
		suggestion, ok := buildSuggestion(raw)
		if !ok {
			continue
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// buildSuggestion keeps results that resolve to a place with usable
// coordinates. A street is optional: a bare city is a valid search origin.
func buildSuggestion(raw nominatimResponse) (AddressSuggestion, bool) {
	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil || lat < -90 || lat > 90 {
		return AddressSuggestion{}, false
	}
	lon, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil || lon < -180 || lon > 180 {
		return AddressSuggestion{}, false
	}

	city := pickCity(raw.Address)
	if city == "" {
		return AddressSuggestion{}, false
	}

	suggestion := AddressSuggestion{
		Street:      raw.Address.Road,
		HouseNumber: raw.Address.HouseNumber,
		ZipCode:     raw.Address.Postcode,
		City:        city,
		State:       raw.Address.State,
		Country:     raw.Address.Country,
		CountryCode: strings.ToUpper(raw.Address.CountryCode),
		Lat:         lat,
		Lon:         lon,
	}

	suggestion.Label = buildLabel(suggestion)

	return suggestion, true
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

// buildLabel renders "Street 12, 1011 AB City" or "City, State, Country"
// when there is no street.
func buildLabel(suggestion AddressSuggestion) string {
	if suggestion.Street == "" {
		parts := []string{suggestion.City}
		if suggestion.State != "" && suggestion.State != suggestion.City {
			parts = append(parts, suggestion.State)
		}
		if suggestion.Country != "" {
			parts = append(parts, suggestion.Country)
		}
		return strings.Join(parts, ", ")
	}

	parts := []string{suggestion.Street}
	if suggestion.HouseNumber != "" {
		parts = append(parts, suggestion.HouseNumber)
	}
	parts = append(parts, ",")
	if suggestion.ZipCode != "" {
		parts = append(parts, suggestion.ZipCode)
	}
	parts = append(parts, suggestion.City)

	label := strings.Join(parts, " ")
	label = strings.ReplaceAll(label, " ,", ",")
	return strings.TrimSpace(label)
}
