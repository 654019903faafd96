package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/toastate/grips/internal/builder"
	"github.com/toastate/grips/internal/tlogger"
	"github.com/toastate/grips/internal/watcher"
)

// Server serves the build folder for local previews. With a builder it
// rebuilds whenever the source folder changes.
type Server struct {
	buildDir    string
	port        string
	override404 string
	buildtool   *builder.Builder
}

func NewServer(buildDir string, port string, override404 string, buildtool *builder.Builder) *Server {
	return &Server{
		buildDir:    buildDir,
		port:        port,
		override404: override404,
		buildtool:   buildtool,
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(s.fileServer(s.buildDir, s.override404))
	return r
}

func (s *Server) Start() error {
	if s.buildtool != nil {
		report, err := s.buildtool.Build()
		if err != nil {
			return err
		}
		tlogger.Info("msg", "Initial build done", "processed", report.Processed)

		// the build folder may sit inside the src folder, its writes must
		// not trigger rebuilds
		w, err := watcher.StartWatcher(s.buildtool.SrcDir(), s.buildtool.ExcludedDirs()...)
		if err != nil {
			return err
		}
		defer w.Close()

		go s.rebuildLoop(w.Updates)
	}

	// We use println here so the address can be copied or opened directly from the terminal
	fmt.Println("Listening on http://localhost:" + s.port)

	return http.ListenAndServe(":"+s.port, s.Handler())
}

// rebuildLoop waits for changes to settle for 500ms before rebuilding. A
// failed rebuild is logged and the previous output keeps being served.
func (s *Server) rebuildLoop(updates <-chan string) {
	for {
		if _, ok := <-updates; !ok {
			return
		}
	settle:
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return
				}
			case <-time.After(time.Millisecond * 500):
				break settle
			}
		}
		report, err := s.buildtool.Build()
		if err != nil {
			tlogger.Error("msg", "Rebuild failed", "err", err)
			continue
		}
		tlogger.Info("msg", "Rebuilt", "processed", report.Processed)
	}
}

func (s *Server) fileServer(dir string, override404 string) func(http.ResponseWriter, *http.Request) {
	if override404 != "" && !strings.HasPrefix(override404, "/") {
		override404 = "/" + override404
	}

	return func(w http.ResponseWriter, r *http.Request) {
	begin:
		upath := r.URL.Path
		if !strings.HasPrefix(upath, "/") {
			upath = "/" + upath
			r.URL.Path = upath
		}

		fullName, ok, err := resolve(dir, upath)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file: " + err.Error()))
			return
		}

		if !ok {
			if override404 != "" && r.URL.Path != override404 {
				r.URL.Path = override404
				goto begin
			}
			w.WriteHeader(404)
			w.Write([]byte("404 page not found"))
			return
		}

		content, err := os.Open(fullName)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file"))
			return
		}
		defer content.Close()

		ctype := mime.TypeByExtension(filepath.Ext(fullName))
		if ctype == "" {
			// read a chunk to decide between utf-8 text and binary
			var buf [512]byte
			n, _ := io.ReadFull(content, buf[:])
			ctype = http.DetectContentType(buf[:n])
			_, err := content.Seek(0, io.SeekStart) // rewind to output whole file
			if err != nil {
				w.WriteHeader(500)
				w.Write([]byte("Internal error: can't seek file: " + err.Error()))
				return
			}
		}
		w.Header().Set("Content-Type", ctype)
		io.Copy(w, content)
	}
}

// resolve maps a URL path to a file of the build folder, trying the path
// itself, then path.html, then path/index.html.
func resolve(dir, upath string) (string, bool, error) {
	const indexPage = "index.html"

	base := filepath.Join(dir, filepath.FromSlash(path.Clean(upath)))
	for _, candidate := range []string{base, base + ".html", filepath.Join(base, indexPage)} {
		info, err := os.Stat(candidate)
		if err != nil {
			if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
				continue
			}
			return "", false, err
		}
		if !info.IsDir() {
			return candidate, true, nil
		}
	}
	return "", false, nil
}
