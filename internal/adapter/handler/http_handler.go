package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tastebite/checkout/internal/core/domain"
	"github.com/tastebite/checkout/internal/core/service"
)

type HTTPHandler struct {
	orders *service.OrderService
}

func NewHTTPHandler(orders *service.OrderService) *HTTPHandler {
	return &HTTPHandler{orders: orders}
}

type buyerPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type cartLinePayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

type createCheckoutRequest struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	User     *buyerPayload     `json:"user"`
	Cart     []cartLinePayload `json:"cart"`
}

type createCheckoutResponse struct {
	PaymentLink string `json:"payment_link"`
	SessionID   string `json:"session_id"`
	OrderID     string `json:"order_id"`
}

type verifyRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}

type verifyResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *HTTPHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	input := service.CheckoutInput{
		Amount:   req.Amount,
		Currency: req.Currency,
	}
	if req.User != nil {
		input.Buyer = service.Buyer{
			UserID: req.User.ID,
			Name:   req.User.Name,
			Email:  req.User.Email,
		}
	}
	for _, line := range req.Cart {
		input.Cart = append(input.Cart, service.CartLine{
			ID:       line.ID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Image:    line.Image,
		})
	}

	result, err := h.orders.Checkout(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "amount is required and must be positive"})
			return
		}
		log.Printf("checkout failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "failed to create payment"})
		return
	}

	writeJSON(w, http.StatusOK, createCheckoutResponse{
		PaymentLink: result.PaymentLink,
		SessionID:   result.SessionID,
		OrderID:     result.OrderID,
	})
}

func (h *HTTPHandler) VerifyOrder(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}
	if req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "orderId is required"})
		return
	}

	var paymentID *string
	if req.PaymentID != "" {
		paymentID = &req.PaymentID
	}

	order, err := h.orders.Verify(r.Context(), req.OrderID, paymentID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "order not found"})
			return
		}
		log.Printf("verify failed for order %s: %v", req.OrderID, err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "failed to verify order"})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Message: "order verified", Order: order})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "order not found"})
			return
		}
		log.Printf("get order failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "failed to load order"})
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "userId is required"})
		return
	}

	orders, err := h.orders.History(r.Context(), userID)
	if err != nil {
		log.Printf("list orders failed for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "failed to load orders"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "userId is required"})
		return
	}

	if err := h.orders.ClearHistory(r.Context(), userID); err != nil {
		log.Printf("clear history failed for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "failed to clear order history"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "order history cleared"})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
