package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/mastercactapus/lzr/device"
	"github.com/mastercactapus/lzr/spjs"
)

func main() {
	log.SetFlags(log.Lshortfile)

	addr := flag.String("addr", ":9091", "Address to bind the lzr server to.")
	dir := flag.String("dir", "./data", "Data directory to use.")
	portName := flag.String("port", "", "Serial port of the controller (or name if using SPJS).")
	baud := flag.Int("baud", 115200, "Baud rate for a direct serial connection.")
	spjsURL := flag.String("spjs", "", "Websocket URL of an SPJS server to use instead of a direct port.")
	export := flag.String("export", "", "Parse the given program file, write the JSON document to stdout, and exit.")
	flag.Parse()

	if *export != "" {
		if err := exportFile(os.Stdout, *export); err != nil {
			log.Fatal(err)
		}
		return
	}

	var dev device.Port
	switch {
	case *spjsURL != "":
		dev = device.NewSPJSPort(spjs.New(*spjsURL), *portName)
	case *portName != "":
		conn, err := device.DialSerial(*portName, *baud)
		if err != nil {
			log.Fatal("open port: ", err)
		}
		dev = conn
	}

	api := newAPI(dev, *dir)

	err := http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		log.Fatal(err)
	}
}
