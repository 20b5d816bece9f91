package logger

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Info пишет информационное сообщение с парами ключ-значение.
func Info(ctx context.Context, msg string, kv ...interface{}) {
	log.Printf("[INFO] %s%s", msg, formatKV(kv))
}

// Error пишет ошибку с сопроводительным сообщением.
func Error(ctx context.Context, err error, msg string, kv ...interface{}) {
	if err == nil {
		return
	}
	log.Printf("[ERROR] %s: %v%s", msg, err, formatKV(kv))
}

func formatKV(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		sb.WriteString(fmt.Sprintf(" %v=%v", kv[i], kv[i+1]))
	}
	// Непарный хвост не теряем
	if len(kv)%2 != 0 {
		sb.WriteString(fmt.Sprintf(" %v", kv[len(kv)-1]))
	}
	return sb.String()
}
