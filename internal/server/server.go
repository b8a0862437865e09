package server

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"github.com/theheadmen/figurine/internal/mailer"
	"github.com/theheadmen/figurine/internal/serverconfig"
	"github.com/theheadmen/figurine/internal/service"
	"github.com/theheadmen/figurine/internal/upload"
)

type ServerSystem struct {
	Storage service.Storage
	Config  *serverconfig.ConfigStore
	Mailer  *mailer.Mailer
	Uploads *upload.Policy
}

func NewServerSystem(storage service.Storage, config *serverconfig.ConfigStore, mail *mailer.Mailer, uploads *upload.Policy) *ServerSystem {
	return &ServerSystem{
		Storage: storage,
		Config:  config,
		Mailer:  mail,
		Uploads: uploads,
	}
}

func (ls *ServerSystem) MakeRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(ls.SessionMiddleware)

	// информационные страницы без авторизации
	for _, page := range []string{"/", "/single", "/family", "/couple", "/wedding", "/anime", "/styles"} {
		r.HandleFunc(page, ls.StaticPageHandler(page)).Methods("GET")
	}

	r.HandleFunc("/dashboard", ls.DashboardGetHandler).Methods("GET")
	r.HandleFunc("/dashboard", ls.DashboardPostHandler).Methods("POST")
	r.HandleFunc("/logout", ls.requireAuth(ls.LogoutHandler)).Methods("GET")
	r.HandleFunc("/cabinet", ls.requireAuth(ls.CabinetHandler)).Methods("GET")
	r.HandleFunc("/create_order", ls.requireAuth(ls.CreateOrderHandler)).Methods("POST")
	r.HandleFunc("/update_status/{order_id}", ls.requireAuth(ls.UpdateStatusHandler)).Methods("POST")
	r.HandleFunc("/update_profile", ls.requireAuth(ls.UpdateProfileHandler)).Methods("POST")
	r.HandleFunc("/confirm/{token}", ls.ConfirmEmailHandler).Methods("GET")

	r.HandleFunc("/admin", ls.requireAdmin(ls.AdminHandler)).Methods("GET")
	r.HandleFunc("/admin/orders", ls.requireAdmin(ls.AdminOrdersHandler)).Methods("GET")
	r.HandleFunc("/admin/order_done/{order_id}", ls.requireAdmin(ls.AdminOrderDoneHandler)).Methods("POST")

	// статика и загруженные фото
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(ls.Config.FlagStaticDir))))

	return r
}

func (ls *ServerSystem) MakeServer(serverAddr string) *http.Server {
	server := http.Server{
		Addr:    serverAddr,
		Handler: ls.MakeRouter(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return &server
}

// StaticPageHandler отдает информационную страницу из каталога статики.
func (ls *ServerSystem) StaticPageHandler(page string) http.HandlerFunc {
	name := "index"
	if page != "/" {
		name = page[1:]
	}
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(ls.Config.FlagStaticDir, name+".html"))
	}
}
