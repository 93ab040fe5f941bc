package main

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/mastercactapus/lzr/device"
	"github.com/mastercactapus/lzr/gcode"
	"github.com/mastercactapus/lzr/player"
	"github.com/mastercactapus/lzr/timeline"
	"github.com/mastercactapus/lzr/vm"
)

type api struct {
	http.Handler
	dataDir string
	port    device.Port
	sse     *sse.Server

	mx     sync.Mutex
	player *player.Player
}

func newAPI(port device.Port, dir string) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		dataDir: dir,
		port:    port,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	files := r.PathPrefix("/data").Subrouter()
	files.HandleFunc("/{name}", a.getFile).Methods("GET")
	files.HandleFunc("/{name}", a.putFile).Methods("PUT")
	files.HandleFunc("/{name}", a.deleteFile).Methods("DELETE")

	r.HandleFunc("/api/parse", a.parse).Methods("POST")
	r.HandleFunc("/api/play", a.play).Methods("POST")
	r.HandleFunc("/api/stop", a.stop).Methods("POST")
	r.HandleFunc("/api/restart", a.restart).Methods("POST")
	r.HandleFunc("/api/run", a.run).Methods("POST")

	r.PathPrefix("/events/").Handler(a.sse)
	if port != nil {
		go func() {
			for state := range port.State() {
				data, err := json.Marshal(state)
				if err != nil {
					log.Printf("ERROR: marshal json: %+v", err)
					continue
				}
				a.sse.SendMessage("/events/state", sse.SimpleMessage(string(data)))
			}
		}()
	}

	return a
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := base
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

func (a *api) parse(w http.ResponseWriter, req *http.Request) {
	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(buildDoc(string(data)))
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

// play builds a timeline from the posted program and starts playing
// it over the /events/playback channel, replacing any prior playback.
func (a *api) play(w http.ResponseWriter, req *http.Request) {
	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tl := timeline.Build(vm.BuildString(string(data)))

	a.mx.Lock()
	if a.player != nil {
		a.player.Close()
	}
	p := player.New(tl)
	a.player = p
	a.mx.Unlock()

	go func() {
		for e := range p.Entries() {
			data, err := json.Marshal(e)
			if err != nil {
				log.Printf("ERROR: marshal json: %+v", err)
				continue
			}
			a.sse.SendMessage("/events/playback", sse.SimpleMessage(string(data)))
		}
	}()

	p.Play()
}

func (a *api) currentPlayer() *player.Player {
	a.mx.Lock()
	defer a.mx.Unlock()
	return a.player
}

func (a *api) stop(w http.ResponseWriter, req *http.Request) {
	p := a.currentPlayer()
	if p == nil {
		http.Error(w, "no playback started", http.StatusNotFound)
		return
	}
	p.Stop()
}

func (a *api) restart(w http.ResponseWriter, req *http.Request) {
	p := a.currentPlayer()
	if p == nil {
		http.Error(w, "no playback started", http.StatusNotFound)
		return
	}
	p.Restart()
}

// run streams the posted program to the connected controller.
func (a *api) run(w http.ResponseWriter, req *http.Request) {
	if a.port == nil {
		http.Error(w, "no device connected", http.StatusServiceUnavailable)
		return
	}

	segs, err := vm.Build(gcode.NewParser(req.Body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	blocks := device.Encode(segs)
	_, err = a.port.ReadFrom(gcode.NewBuffer(&gcode.BlocksReader{Blocks: blocks}))
	if err != nil {
		log.Printf("ERROR: run: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) getFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, mux.Vars(req)["name"])
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	http.ServeFile(w, req, name)
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, mux.Vars(req)["name"])
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	os.MkdirAll(filepath.Dir(name), 0755)
	f, err := os.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, mux.Vars(req)["name"])
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
