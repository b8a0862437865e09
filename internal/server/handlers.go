package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/theheadmen/figurine/internal/auth"
	serverrors "github.com/theheadmen/figurine/internal/errors"
	"github.com/theheadmen/figurine/internal/logger"
	"github.com/theheadmen/figurine/internal/models"
	"github.com/theheadmen/figurine/internal/service"
)

// DashboardGetHandler отдает страницу входа/регистрации. Авторизованного
// пользователя сразу уводит в кабинет.
func (ls *ServerSystem) DashboardGetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(r); ok {
		http.Redirect(w, r, "/cabinet", http.StatusSeeOther)
		return
	}
	http.ServeFile(w, r, filepath.Join(ls.Config.FlagStaticDir, "dashboard.html"))
}

// DashboardPostHandler обрабатывает обе формы входа, поле action выбирает
// ветку. Обе ветки валидируют свои поля до любого обращения к хранилищу.
func (ls *ServerSystem) DashboardPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, "Некорректная форма")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	switch r.FormValue("action") {
	case "login":
		ls.loginForm(w, r)
	case "register":
		ls.registerForm(w, r)
	default:
		setFlash(w, "Неизвестное действие")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func (ls *ServerSystem) loginForm(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		setFlash(w, "Заполните почту и пароль")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	user, err := service.LoginUserLogic(r.Context(), ls.Storage, email, password, ls.Config.RequireConfirmed)
	if err != nil {
		message := "Неверные данные"
		if errors.Is(err, serverrors.ErrEmailNotConfirmed) {
			message = "Почта не подтверждена"
		}
		setFlash(w, message)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := ls.setSessionCookie(w, user.ID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/cabinet", http.StatusSeeOther)
}

func (ls *ServerSystem) registerForm(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")
	if email == "" || password == "" {
		setFlash(w, "Заполните почту и пароль")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if confirm == "" {
		setFlash(w, "Подтвердите пароль")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if confirm != password {
		setFlash(w, "Пароли не совпадают")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	user, err := service.RegisterUserLogic(r.Context(), ls.Storage, email, password)
	if err != nil {
		message := "Не удалось зарегистрироваться"
		if errors.Is(err, serverrors.ErrDuplicateEmail) {
			message = "Email уже зарегистрирован"
		}
		setFlash(w, message)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ls.sendConfirmationLink(r.Context(), user.Email)

	if err := ls.setSessionCookie(w, user.ID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/cabinet", http.StatusSeeOther)
}

// sendConfirmationLink выпускает токен подтверждения и отправляет письмо.
// Ошибка отправки не валит регистрацию, ссылка остается в логе.
func (ls *ServerSystem) sendConfirmationLink(ctx context.Context, email string) {
	token, err := auth.GenerateConfirmToken([]byte(ls.Config.SessionSecret), email)
	if err != nil {
		logger.Error("failed to issue confirm token", zap.String("request_id", requestID(ctx)), zap.Error(err))
		return
	}
	link := fmt.Sprintf("%s/confirm/%s", strings.TrimRight(ls.Config.FlagBaseURL, "/"), token)

	if !ls.Mailer.Enabled() {
		logger.Info("mailer is not configured, confirmation link logged instead",
			zap.String("request_id", requestID(ctx)), zap.String("link", link))
		return
	}
	if err := ls.Mailer.SendConfirmation(email, link); err != nil {
		logger.Error("failed to send confirmation email", zap.String("request_id", requestID(ctx)), zap.Error(err))
	}
}

// ConfirmEmailHandler проверяет ссылку подтверждения. Просроченный и
// подделанный токен для пользователя неотличимы.
func (ls *ServerSystem) ConfirmEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	email, err := auth.VerifyConfirmToken([]byte(ls.Config.SessionSecret), token)
	if err != nil {
		setFlash(w, "Ссылка недействительна или устарела")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	already, err := service.ConfirmEmailLogic(r.Context(), ls.Storage, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setFlash(w, "Ссылка недействительна или устарела")
		} else {
			setFlash(w, "Не удалось подтвердить почту, попробуйте позже")
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if already {
		setFlash(w, "Почта уже подтверждена")
	} else {
		setFlash(w, "Почта подтверждена")
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// LogoutHandler сбрасывает cookie сессии.
func (ls *ServerSystem) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CabinetHandler возвращает кабинет пользователя: заказы с ценами и счетчики.
func (ls *ServerSystem) CabinetHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	cabinet, err := service.CabinetLogic(r.Context(), ls.Storage, user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cabinet)
}

// CreateOrderHandler принимает multipart форму с фото и атрибутами заказа.
// Все обязательные поля проверяются до записи файла на диск.
func (ls *ServerSystem) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeStatus(w, http.StatusBadRequest, "error", "некорректная форма")
		return
	}

	figurineType := r.FormValue("figurine_type")
	size := r.FormValue("size")
	comments := r.FormValue("comments")
	if figurineType == "" || size == "" {
		writeStatus(w, http.StatusBadRequest, "error", "не заполнены обязательные поля")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "error", "не приложено фото")
		return
	}
	defer file.Close()

	storedName, err := ls.Uploads.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, serverrors.ErrForbiddenExtension) {
			writeStatus(w, http.StatusBadRequest, "error", "недопустимый тип файла")
			return
		}
		logger.Error("failed to store uploaded photo", zap.String("request_id", requestID(r.Context())), zap.Error(err))
		writeStatus(w, http.StatusInternalServerError, "error", "не удалось сохранить фото")
		return
	}

	order, err := service.CreateOrderLogic(r.Context(), ls.Storage, user.ID, storedName, figurineType, size, comments)
	if err != nil {
		// файл уже на диске, при падении вставки он остается сиротой
		logger.Error("failed to create order", zap.String("request_id", requestID(r.Context())), zap.Error(err))
		writeStatus(w, http.StatusInternalServerError, "error", "не удалось создать заказ")
		return
	}

	writeStatus(w, http.StatusOK, "ok", fmt.Sprintf("заказ %d создан", order.ID))
}

// UpdateStatusHandler переводит заказ владельца из "ожидает оплаты" в
// "в процессе".
func (ls *ServerSystem) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	orderID, err := strconv.ParseUint(mux.Vars(r)["order_id"], 10, 32)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "error", "некорректный номер заказа")
		return
	}

	order, err := service.AdvanceOrderLogic(r.Context(), ls.Storage, user.ID, uint(orderID))
	switch {
	case errors.Is(err, serverrors.ErrOrderNotFound):
		writeStatus(w, http.StatusNotFound, "error", "заказ не найден")
		return
	case errors.Is(err, serverrors.ErrInvalidTransition):
		writeStatus(w, http.StatusBadRequest, "error", "заказ нельзя перевести в этот статус")
		return
	case err != nil:
		writeStatus(w, http.StatusInternalServerError, "error", "не удалось обновить заказ")
		return
	}

	writeStatus(w, http.StatusOK, "ok", order.Status)
}

// UpdateProfileHandler обновляет имя, телефон и адрес пользователя.
func (ls *ServerSystem) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var profile models.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeStatus(w, http.StatusBadRequest, "error", "некорректный запрос")
		return
	}
	if strings.TrimSpace(profile.Name) == "" {
		writeStatus(w, http.StatusBadRequest, "error", "имя не может быть пустым")
		return
	}

	if err := service.UpdateProfileLogic(r.Context(), ls.Storage, user, profile); err != nil {
		writeStatus(w, http.StatusInternalServerError, "error", "не удалось обновить профиль")
		return
	}
	writeStatus(w, http.StatusOK, "ok", "профиль обновлен")
}
