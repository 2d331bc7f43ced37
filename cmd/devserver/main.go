// Command devserver runs every feature handler behind one local HTTP
// server, so the web client can be pointed at localhost without deploying
// the Lambdas. Routes mirror the deployed function paths.
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"lingobuddy/handler"
	"lingobuddy/internal/app"
)

func main() {
	// Missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg, err := app.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	svc, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to build feature service", "err", err)
		os.Exit(1)
	}

	chatHandler, err := handler.NewChatHandler(svc)
	if err != nil {
		slog.Error("failed to create chat handler", "err", err)
		os.Exit(1)
	}
	talkHandler, err := handler.NewTalkHandler(svc)
	if err != nil {
		slog.Error("failed to create talk handler", "err", err)
		os.Exit(1)
	}
	listenHandler, err := handler.NewListenHandler(svc)
	if err != nil {
		slog.Error("failed to create listen handler", "err", err)
		os.Exit(1)
	}
	readHandler, err := handler.NewReadHandler(svc)
	if err != nil {
		slog.Error("failed to create read handler", "err", err)
		os.Exit(1)
	}

	r := gin.Default()
	r.Any("/functions/chat-buddy", streamRoute(chatHandler.Handle))
	r.Any("/functions/talk-buddy-chat", bufferedRoute(talkHandler.Handle))
	r.Any("/functions/listen-buddy-generate", bufferedRoute(listenHandler.Handle))
	r.Any("/functions/listen-buddy-respond", bufferedRoute(listenHandler.Handle))
	r.Any("/functions/read-buddy-generate", bufferedRoute(readHandler.Handle))

	addr := ":8787"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	slog.Info("devserver listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("devserver stopped", "err", err)
		os.Exit(1)
	}
}

// toEvent converts an incoming HTTP request into the Lambda Function URL
// event shape the handlers consume. Handlers look headers up
// case-insensitively, so canonical names are fine here.
func toEvent(c *gin.Context) (events.LambdaFunctionURLRequest, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return events.LambdaFunctionURLRequest{}, err
	}
	headers := make(map[string]string, len(c.Request.Header))
	for k, vs := range c.Request.Header {
		if len(vs) > 0 {
			headers[http.CanonicalHeaderKey(k)] = vs[0]
		}
	}
	req := events.LambdaFunctionURLRequest{
		RawPath: c.Request.URL.Path,
		Headers: headers,
		Body:    string(body),
	}
	req.RequestContext.HTTP.Method = c.Request.Method
	return req, nil
}

func bufferedRoute(handle func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := toEvent(c)
		if err != nil {
			c.String(http.StatusBadRequest, "failed to read request body")
			return
		}
		resp, err := handle(c.Request.Context(), event)
		if err != nil {
			c.String(http.StatusInternalServerError, "handler failed")
			return
		}
		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.String(resp.StatusCode, resp.Body)
	}
}

func streamRoute(handle func(context.Context, events.LambdaFunctionURLRequest) (*events.LambdaFunctionURLStreamingResponse, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := toEvent(c)
		if err != nil {
			c.String(http.StatusBadRequest, "failed to read request body")
			return
		}
		resp, err := handle(c.Request.Context(), event)
		if err != nil {
			c.String(http.StatusInternalServerError, "handler failed")
			return
		}
		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Status(resp.StatusCode)
		if resp.Body == nil {
			return
		}
		flusher, _ := c.Writer.(http.Flusher)
		buf := make([]byte, 4096)
		for {
			n, rerr := resp.Body.Read(buf)
			if n > 0 {
				if _, werr := c.Writer.Write(buf[:n]); werr != nil {
					break
				}
				if flusher != nil {
					flusher.Flush()
				}
			}
			if rerr != nil {
				break
			}
		}
		if closer, ok := resp.Body.(io.Closer); ok {
			_ = closer.Close()
		}
	}
}
