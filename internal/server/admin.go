package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/theheadmen/figurine/internal/dbconnector"
	serverrors "github.com/theheadmen/figurine/internal/errors"
	"github.com/theheadmen/figurine/internal/service"
)

// AdminHandler возвращает сводку по заказам для админской страницы.
func (ls *ServerSystem) AdminHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := service.AdminSummaryLogic(r.Context(), ls.Storage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// AdminOrdersHandler отдает все заказы по фильтрам. Фильтры hide_done и
// paid_only комбинируются по И, сортировка по времени создания,
// по умолчанию от новых к старым. Выборка не ограничена.
func (ls *ServerSystem) AdminOrdersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := dbconnector.OrderFilter{
		HideDone: query.Get("hide_done") == "1",
		PaidOnly: query.Get("paid_only") == "1",
		Asc:      query.Get("sort") == "asc",
	}

	orders, err := service.AdminOrdersLogic(r.Context(), ls.Storage, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// AdminOrderDoneHandler выставляет заказу статус "готово" из любого
// состояния, повторный вызов ничего не меняет.
func (ls *ServerSystem) AdminOrderDoneHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseUint(mux.Vars(r)["order_id"], 10, 32)
	if err != nil {
		writeStatus(w, http.StatusNotFound, "error", "заказ не найден")
		return
	}

	order, err := service.CompleteOrderLogic(r.Context(), ls.Storage, uint(orderID))
	if err != nil {
		if errors.Is(err, serverrors.ErrOrderNotFound) {
			writeStatus(w, http.StatusNotFound, "error", "заказ не найден")
			return
		}
		writeStatus(w, http.StatusInternalServerError, "error", "не удалось обновить заказ")
		return
	}

	writeStatus(w, http.StatusOK, "ok", order.Status)
}
