package restapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeohaeng/travel-client/restapi"
)

func TestLoginDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.com", body["email"])
		require.Equal(t, "secret123", body["password"])

		fmt.Fprint(w, `{"success":true,"data":{"accessToken":"AT1","refreshToken":"RT1","memberId":7,"memberName":"Kim","memberNickname":"kimchi"}}`)
	}))
	defer server.Close()

	client := restapi.New(server.URL, server.Client())
	res, err := client.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	require.Equal(t, "AT1", res.AccessToken)
	require.Equal(t, "RT1", res.RefreshToken)
	require.Equal(t, int64(7), res.MemberID)
	require.Equal(t, "Kim", res.MemberName)
	require.Equal(t, "kimchi", res.Nickname)
	// The backend does not echo the email; the submitted one is carried over.
	require.Equal(t, "a@b.com", res.Email)
}

func TestLoginRejectionCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"email or password do not match"}`)
	}))
	defer server.Close()

	client := restapi.New(server.URL, server.Client())
	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	var apiErr *restapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "email or password do not match", apiErr.ServerMessage())
}

func TestExchangeAuthCodeHitsProviderPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/kakao/exchange", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "XYZ", body["code"])

		fmt.Fprint(w, `{"success":true,"data":{"accessToken":"AT2","refreshToken":"RT2","memberId":9,"memberName":"Lee","memberNickname":"solo"}}`)
	}))
	defer server.Close()

	client := restapi.New(server.URL, server.Client())
	res, err := client.ExchangeAuthCode(context.Background(), "kakao", "XYZ")
	require.NoError(t, err)
	require.Equal(t, int64(9), res.MemberID)
	require.Equal(t, "AT2", res.AccessToken)
}

func TestHTTPErrorWithoutEnvelopeBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	}))
	defer server.Close()

	client := restapi.New(server.URL, server.Client())
	_, err := client.Login(context.Background(), "a@b.com", "secret123")

	var apiErr *restapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Empty(t, apiErr.ServerMessage())
}

func TestTransportFailureIsNotAnAPIError(t *testing.T) {
	client := restapi.New("http://127.0.0.1:1", http.DefaultClient)
	_, err := client.Login(context.Background(), "a@b.com", "secret123")
	require.Error(t, err)

	var apiErr *restapi.APIError
	require.False(t, errors.As(err, &apiErr))
}

func TestListAccommodations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accommodations", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"success":true,"data":[{"accommodationNo":3,"name":"Sea Stay","region":"Seogwipo","priceMin":40000,"priceMax":90000}]}`)
	}))
	defer server.Close()

	client := restapi.New(server.URL, server.Client())
	stays, err := client.ListAccommodations(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, stays, 1)
	require.Equal(t, "Sea Stay", stays[0].Name)
	require.Equal(t, int64(3), stays[0].AccommodationNo)
}

func TestCheckEmailTakenAndAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") == "taken@b.com" {
			fmt.Fprint(w, `{"success":false,"message":"that email is already in use"}`)
			return
		}
		fmt.Fprint(w, `{"success":true,"message":"available"}`)
	}))
	defer server.Close()

	client := restapi.New(server.URL, server.Client())

	ok, err := client.CheckEmail(context.Background(), "new@b.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.CheckEmail(context.Background(), "taken@b.com")
	require.NoError(t, err)
	require.False(t, ok)
}
