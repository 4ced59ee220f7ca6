package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform body of JSON API responses.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes an enveloped JSON response.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, Envelope{Code: code, Message: message, Data: data})
}

// Success answers 200 with data.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created answers 201 with the created resource.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, 0, "created", data)
}

// Error answers status with an application code and message and aborts the chain.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
	ctx.Abort()
}
