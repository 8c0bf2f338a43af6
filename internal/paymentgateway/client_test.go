package paymentgateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	paymentgatewaytypes "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/civic-issue-tracker/internal/paymentgateway"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

var _ = Describe("Client", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		client  *paymentgateway.Client
	)

	BeforeEach(func() {
		handler = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		client = paymentgateway.NewClient(internal.PaymentConfig{
			GatewayURL: server.URL + "/",
			APIKey:     "sk_test",
		}, logger.Discard())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should default the currency", func() {
		Expect(client.Currency()).To(Equal("usd"))
	})

	It("should create an intent", func() {
		var (
			received           paymentgatewaytypes.IntentRequest
			method, path, auth string
		)
		handler = func(w http.ResponseWriter, r *http.Request) {
			method, path, auth = r.Method, r.URL.Path, r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&received)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret","status":"requires_payment_method"}`))
		}

		resp, err := client.CreateIntent(context.Background(), &paymentgatewaytypes.IntentRequest{
			Amount:   1200,
			Metadata: map[string]string{"userEmail": "a@example.com"},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(method).To(Equal(http.MethodPost))
		Expect(path).To(Equal("/v1/payment_intents"))
		Expect(auth).To(Equal("Bearer sk_test"))
		Expect(resp.ID).To(Equal("pi_1"))
		Expect(resp.ClientSecret).To(Equal("pi_1_secret"))
		Expect(received.Amount).To(Equal(int64(1200)))
		Expect(received.Currency).To(Equal("usd"))
		Expect(received.Metadata).To(HaveKeyWithValue("userEmail", "a@example.com"))
	})

	It("should reject a non-positive amount without calling the provider", func() {
		called := false
		handler = func(w http.ResponseWriter, r *http.Request) { called = true }

		_, err := client.CreateIntent(context.Background(), &paymentgatewaytypes.IntentRequest{Amount: 0})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidAmount))
		Expect(called).To(BeFalse())
	})

	It("should surface provider errors", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"message":"card declined","type":"card_error"}}`))
		}

		_, err := client.CreateIntent(context.Background(), &paymentgatewaytypes.IntentRequest{Amount: 100})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePaymentProvider))
		Expect(appErr.Message).To(ContainSubstring("card declined"))
		Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
	})

	It("should reject a response without a client secret", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"pi_2"}`))
		}

		_, err := client.CreateIntent(context.Background(), &paymentgatewaytypes.IntentRequest{Amount: 100})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePaymentProvider))
	})

	It("should reject an intent the provider already canceled", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"pi_3","client_secret":"pi_3_secret","status":"canceled"}`))
		}

		intent, err := client.CreateIntent(context.Background(), &paymentgatewaytypes.IntentRequest{Amount: 100})

		Expect(intent).To(BeNil())
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePaymentProvider))
	})

	It("should report an unreachable provider", func() {
		server.Close()

		_, err := client.CreateIntent(context.Background(), &paymentgatewaytypes.IntentRequest{Amount: 100})

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeUnexpected))
	})
})
