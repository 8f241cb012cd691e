package telegram

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBotToken = "123456:ABC-test-token"

	// produced by an independent HMAC implementation
	knownInitData = "auth_date=1700000000&query_id=AAHdF6IQAAAAAN0XohDhrOrc" +
		"&user=%7B%22id%22%3A279058397%2C%22first_name%22%3A%22Vladislav%22%2C%22username%22%3A%22vdkfrost%22%2C%22language_code%22%3A%22ru%22%7D" +
		"&hash=1c838537b7fe0f839709e0cad52305934b1e1699fcd4df90775dcb83da121215"
	knownHash = "1c838537b7fe0f839709e0cad52305934b1e1699fcd4df90775dcb83da121215"
)

func TestVerify_KnownVector(t *testing.T) {
	data, err := Verify(knownInitData, testBotToken)
	require.NoError(t, err)

	require.NotNil(t, data.User)
	assert.Equal(t, int64(279058397), data.User.ID)
	assert.Equal(t, "279058397", data.User.Identity())
	assert.Equal(t, "Vladislav", data.User.FirstName)
	assert.Equal(t, "vdkfrost", data.User.Username)
	assert.Equal(t, "ru", data.User.LanguageCode)
	assert.Equal(t, "AAHdF6IQAAAAAN0XohDhrOrc", data.QueryID)
	assert.Equal(t, time.Unix(1700000000, 0), data.AuthDate)
	assert.Equal(t, knownHash, data.Hash)
	assert.Empty(t, data.Raw.Get("hash"))
}

func TestVerify_PairOrderDoesNotMatter(t *testing.T) {
	values, err := url.ParseQuery(knownInitData)
	require.NoError(t, err)

	// rebuild the query with keys in reverse order
	reordered := "user=" + url.QueryEscape(values.Get("user")) +
		"&hash=" + knownHash +
		"&query_id=" + values.Get("query_id") +
		"&auth_date=" + values.Get("auth_date")

	_, err = Verify(reordered, testBotToken)
	assert.NoError(t, err)
}

func TestVerify_WrongToken(t *testing.T) {
	_, err := Verify(knownInitData, "654321:other-token")
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestVerify_MissingInputs(t *testing.T) {
	tests := []struct {
		name     string
		initData string
		token    string
		wantErr  error
	}{
		{name: "missing token", initData: knownInitData, token: "", wantErr: ErrMissingBotToken},
		{name: "missing init data", initData: "", token: testBotToken, wantErr: ErrMissingInitData},
		{name: "missing hash", initData: "auth_date=1700000000", token: testBotToken, wantErr: ErrMissingHash},
		{name: "bad escape", initData: "user=%zz&hash=abc", token: testBotToken, wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.initData, tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerify_SingleCharacterMutationRejects(t *testing.T) {
	values, err := url.ParseQuery(knownInitData)
	require.NoError(t, err)

	mutate := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'a' {
			b[i] = 'b'
		} else {
			b[i] = 'a'
		}
		return string(b)
	}

	t.Run("hash", func(t *testing.T) {
		for i := range knownHash {
			tampered := url.Values{}
			for k, vs := range values {
				tampered[k] = vs
			}
			tampered.Set("hash", mutate(knownHash, i))

			_, err := Verify(tampered.Encode(), testBotToken)
			assert.ErrorIs(t, err, ErrHashMismatch, "position %d", i)
		}
	})

	for _, key := range []string{"auth_date", "query_id", "user"} {
		key := key
		t.Run(key, func(t *testing.T) {
			original := values.Get(key)
			for i := range original {
				tampered := url.Values{}
				for k, vs := range values {
					tampered[k] = vs
				}
				tampered.Set(key, mutate(original, i))

				_, err := Verify(tampered.Encode(), testBotToken)
				assert.Error(t, err, "position %d", i)
			}
		})
	}
}

func TestVerify_AddedFieldRejects(t *testing.T) {
	_, err := Verify(knownInitData+"&start_param=promo", testBotToken)
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestSign_RoundTrip(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", "1700000100")
	values.Set("start_param", "ref_42")
	values.Set("user", `{"id":42,"first_name":"Anna","is_premium":true}`)
	values.Set("hash", "stale")

	signed := Sign(values, testBotToken)
	assert.NotContains(t, signed, "hash=stale")

	data, err := Verify(signed, testBotToken)
	require.NoError(t, err)
	require.NotNil(t, data.User)
	assert.Equal(t, int64(42), data.User.ID)
	assert.True(t, data.User.IsPremium)
	assert.Equal(t, "ref_42", data.StartParam)

	// input is left untouched
	assert.Equal(t, "stale", values.Get("hash"))
}

func TestVerify_WithoutUser(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", "1700000000")

	data, err := Verify(Sign(values, testBotToken), testBotToken)
	require.NoError(t, err)
	assert.Nil(t, data.User)
}

func TestVerify_MalformedUserAfterValidSignature(t *testing.T) {
	values := url.Values{}
	values.Set("user", "{not json")

	_, err := Verify(Sign(values, testBotToken), testBotToken)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyWithAge(t *testing.T) {
	authDate := time.Unix(1700000000, 0)

	_, err := VerifyWithAge(knownInitData, testBotToken, time.Hour, authDate.Add(30*time.Minute))
	assert.NoError(t, err)

	_, err = VerifyWithAge(knownInitData, testBotToken, time.Hour, authDate.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrExpired)

	// freshness disabled
	_, err = VerifyWithAge(knownInitData, testBotToken, 0, authDate.Add(24*365*time.Hour))
	assert.NoError(t, err)

	noDate := Sign(url.Values{"query_id": {"q"}}, testBotToken)
	_, err = VerifyWithAge(noDate, testBotToken, time.Hour, authDate)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDataCheckString(t *testing.T) {
	values := url.Values{
		"user":      {"u"},
		"auth_date": {"1"},
		"hash":      {"ignored"},
		"query_id":  {"q"},
	}

	got := DataCheckString(values)
	assert.Equal(t, "auth_date=1\nquery_id=q\nuser=u", got)
	assert.False(t, strings.Contains(got, "hash="))
}
