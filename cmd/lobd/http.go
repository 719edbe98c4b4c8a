package main

import (
	"net/http"

	"github.com/novaex/lob/pkg/feed/ws"
)

func httpMux(broadcaster *ws.Broadcaster) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", broadcaster)
	return mux
}

func listenAndServe(addr string, mux *http.ServeMux) error {
	return http.ListenAndServe(addr, mux)
}
