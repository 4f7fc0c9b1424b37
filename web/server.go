package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/vrm_browser/vrm"
)

var ServedModel *vrm.Model

// StartServer serves one loaded model for browsing: json summaries plus
// downloads of extracted images, per-primitive glb fragments and the
// re-encoded container.
func StartServer(addr string, m *vrm.Model) error {
	ServedModel = m

	r := mux.NewRouter()
	r.HandleFunc("/json/model", HandlerModelSummary)
	r.HandleFunc("/json/meta", HandlerMeta)
	r.HandleFunc("/json/tree", HandlerNodeTree)
	r.HandleFunc("/dump/glb", HandlerDumpGLB)
	r.HandleFunc("/dump/image/{index}", HandlerDumpImage)
	r.HandleFunc("/dump/primitive/{mesh}/{prim}", HandlerDumpPrimitive)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v for %q", addr, m.Name)

	return http.ListenAndServe(addr, h)
}
