package middleware

import (
	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	log logger.Logger
}

func New() Middleware {
	return Middleware{log: logger.New("middleware")}
}
