package maps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"
)

type testMapsConfig struct {
	url       string
	countries string
}

func (c testMapsConfig) GetNominatimURL() string          { return c.url }
func (c testMapsConfig) GetNominatimCountryCodes() string { return c.countries }

const nominatimPayload = `[
  {"display_name":"Damrak 1, Amsterdam","lat":"52.3745","lon":"4.8979",
   "address":{"road":"Damrak","house_number":"1","postcode":"1012 LG","city":"Amsterdam","state":"North Holland","country":"Netherlands","country_code":"nl"}},
  {"display_name":"Utrecht","lat":"52.0907","lon":"5.1214",
   "address":{"town":"Utrecht","state":"Utrecht","country":"Netherlands","country_code":"nl"}},
  {"display_name":"North Sea","lat":"55.0","lon":"3.0","address":{"country":"Netherlands"}},
  {"display_name":"Broken","lat":"abc","lon":"4.0","address":{"city":"Nowhere"}}
]`

func TestBuildLabel(t *testing.T) {
	assert.Equal(t, "Damrak 1, 1012 LG Amsterdam", buildLabel(AddressSuggestion{
		Street: "Damrak", HouseNumber: "1", ZipCode: "1012 LG", City: "Amsterdam",
	}))
	assert.Equal(t, "Damrak, Amsterdam", buildLabel(AddressSuggestion{Street: "Damrak", City: "Amsterdam"}))
	assert.Equal(t, "Utrecht, Netherlands", buildLabel(AddressSuggestion{City: "Utrecht", State: "Utrecht", Country: "Netherlands"}))
	assert.Equal(t, "Austin, Texas, United States", buildLabel(AddressSuggestion{City: "Austin", State: "Texas", Country: "United States"}))
}

func TestBuildSuggestionRequiresPlaceAndCoordinates(t *testing.T) {
	var raw []nominatimResponse
	require.NoError(t, json.Unmarshal([]byte(nominatimPayload), &raw))

	first, ok := buildSuggestion(raw[0])
	require.True(t, ok)
	assert.Equal(t, "NL", first.CountryCode)
	assert.InDelta(t, 52.3745, first.Lat, 1e-9)
	assert.InDelta(t, 4.8979, first.Lon, 1e-9)

	second, ok := buildSuggestion(raw[1])
	require.True(t, ok)
	assert.Equal(t, "Utrecht", second.City)
	assert.Empty(t, second.Street)

	_, ok = buildSuggestion(raw[2])
	assert.False(t, ok, "no city")
	_, ok = buildSuggestion(raw[3])
	assert.False(t, ok, "bad latitude")
}

func TestSearchAddress(t *testing.T) {
	var gotQuery, gotAgent string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nominatimPayload))
	}))
	defer upstream.Close()

	svc := NewService(testMapsConfig{url: upstream.URL, countries: "nl,be"}, logger.Discard())
	results, err := svc.SearchAddress(context.Background(), "damrak")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Damrak 1, 1012 LG Amsterdam", results[0].Label)
	assert.Equal(t, "Utrecht, Netherlands", results[1].Label)
	assert.Contains(t, gotQuery, "countrycodes=nl%2Cbe")
	assert.Contains(t, gotQuery, "addressdetails=1")
	assert.Equal(t, userAgent, gotAgent)
}

func TestSearchAddressOmitsEmptyCountryCodes(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	svc := NewService(testMapsConfig{url: upstream.URL}, logger.Discard())
	results, err := svc.SearchAddress(context.Background(), "austin")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotContains(t, gotQuery, "countrycodes")
}

func TestSearchAddressUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	svc := NewService(testMapsConfig{url: upstream.URL}, logger.Discard())
	_, err := svc.SearchAddress(context.Background(), "austin")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

func TestLookupAddressHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(nominatimPayload))
	}))
	defer upstream.Close()

	h := NewHandler(NewService(testMapsConfig{url: upstream.URL}, logger.Discard()), validator.New())
	engine := gin.New()
	engine.GET("/maps/address-lookup", h.LookupAddress)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/maps/address-lookup?q=damrak", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body LookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Suggestions, 2)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/maps/address-lookup?q=%20a%20", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
