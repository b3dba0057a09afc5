package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// recognizeSimCmd drives synthetic recognition load against a running
// server, the same way simulateCmd drove synthetic IoT device traffic: it
// authenticates as a device and repeatedly calls POST /recognize on a
// fixed interval, so the scheduler/finalizer timing can be exercised
// manually without a real camera or embedding model in front of it.
var recognizeSimCmd = &cobra.Command{
	Use:   "recognize-sim",
	Short: "Drive synthetic recognition traffic against a running server",
	Long: `Repeatedly posts frames to a running server's /recognize endpoint using a
device API key, for manually exercising session/scheduler/finalizer timing
without a real camera or embedding model.`,
	RunE: runRecognizeSim,
}

var (
	recognizeSimBaseURL    string
	recognizeSimAPIKey     string
	recognizeSimInterval   time.Duration
	recognizeSimIterations int
	recognizeSimRoomID     int64
	recognizeSimCourseID   int64
	recognizeSimSessionID  int64
)

func init() {
	RootCmd.AddCommand(recognizeSimCmd)

	recognizeSimCmd.Flags().StringVar(&recognizeSimBaseURL, "base-url", "http://localhost:8080", "base URL of the running server")
	recognizeSimCmd.Flags().StringVar(&recognizeSimAPIKey, "device-api-key", "", "device API key used for Authorization: Bearer (required)")
	recognizeSimCmd.Flags().DurationVar(&recognizeSimInterval, "interval", 5*time.Second, "time between recognition calls")
	recognizeSimCmd.Flags().IntVar(&recognizeSimIterations, "iterations", 0, "number of calls to make; 0 runs until interrupted")
	recognizeSimCmd.Flags().Int64Var(&recognizeSimRoomID, "room-id", 0, "optional scope: room ID")
	recognizeSimCmd.Flags().Int64Var(&recognizeSimCourseID, "course-id", 0, "optional scope: course ID")
	recognizeSimCmd.Flags().Int64Var(&recognizeSimSessionID, "session-id", 0, "optional scope: session ID")
}

func runRecognizeSim(cmd *cobra.Command, args []string) error {
	if recognizeSimAPIKey == "" {
		return fmt.Errorf("recognize-sim: --device-api-key is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newRecognizeSimClient(recognizeSimBaseURL, recognizeSimAPIKey)

	ticker := time.NewTicker(recognizeSimInterval)
	defer ticker.Stop()

	count := 0
	for {
		result, err := client.recognize(ctx)
		if err != nil {
			log.Printf("recognize-sim: call %d failed: %v", count+1, err)
		} else {
			log.Printf("recognize-sim: call %d -> %s", count+1, result)
		}
		count++

		if recognizeSimIterations > 0 && count >= recognizeSimIterations {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// recognizeSimClient posts synthetic frames to a running server's
// /recognize endpoint, authenticating the same way a real recognition
// camera would (auth/device.DeviceOnlyAuthenticator).
type recognizeSimClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newRecognizeSimClient(baseURL, apiKey string) *recognizeSimClient {
	return &recognizeSimClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type recognizeSimScope struct {
	RoomID    int64 `json:"roomId,omitempty"`
	CourseID  int64 `json:"courseId,omitempty"`
	SessionID int64 `json:"sessionId,omitempty"`
}

type recognizeSimRequest struct {
	Image string             `json:"image"`
	Scope *recognizeSimScope `json:"scope,omitempty"`
}

func (c *recognizeSimClient) recognize(ctx context.Context) (string, error) {
	body := recognizeSimRequest{Image: base64.StdEncoding.EncodeToString(syntheticFrame())}
	if recognizeSimRoomID != 0 || recognizeSimCourseID != 0 || recognizeSimSessionID != 0 {
		body.Scope = &recognizeSimScope{RoomID: recognizeSimRoomID, CourseID: recognizeSimCourseID, SessionID: recognizeSimSessionID}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("recognize-sim: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recognize", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("recognize-sim: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize-sim: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("recognize-sim: read response: %w", err)
	}

	return fmt.Sprintf("%d %s", resp.StatusCode, string(raw)), nil
}

// syntheticFrame produces a small, non-empty placeholder payload standing
// in for a JPEG frame. recognize-sim never runs an embedding model; the
// server's recognition matcher is expected to respond with its normal
// low-confidence/no-match outcome, which is enough to drive session and
// finalizer timing during manual testing.
func syntheticFrame() []byte {
	frame := make([]byte, 64)
	_, _ = rand.Read(frame)
	return frame
}
