package commands

import (
	"time"

	"github.com/bluetuith-org/audio-presence/api/audio"
	"github.com/bluetuith-org/audio-presence/api/errorkinds"
	"github.com/bluetuith-org/audio-presence/shim/internal/serde"
)

// Session commands.
func StartRpcServer(socketPath string) *Command[NoResult] {
	return (&Command[NoResult]{cmd: "rpc start-server"}).WithArgument(SocketArgument, socketPath)
}
func StopRpcServer() *Command[NoResult] {
	return &Command[NoResult]{cmd: "rpc stop-server"}
}

// Audio service commands.
func GetAPILevel() *Command[audio.Level] {
	return &Command[audio.Level]{cmd: "audio api-level"}
}
func GetOutputDevices() *Command[[]audio.OutputDevice] {
	return (&Command[[]audio.OutputDevice]{cmd: "audio devices"}).WithArgument(FilterArgument, FilterOutputs)
}
func IsWiredHeadsetOn() *Command[bool] {
	return &Command[bool]{cmd: "audio wired-headset-on"}
}
func IsBluetoothA2DPOn() *Command[bool] {
	return &Command[bool]{cmd: "audio bluetooth-a2dp-on"}
}

// ExecuteWith sends the command using the executor, and waits for a reply until the timeout.
// The reply data is expected to be an object with a single key holding the result.
func (c *Command[T]) ExecuteWith(fn ExecuteFunc, timeout time.Duration) (T, error) {
	var result T

	responseChan, commandErr := fn(c.Slice())
	if commandErr != nil {
		return result, commandErr
	}

	commandErr = errorkinds.ErrSessionStop

	select {
	case response, ok := <-responseChan:
		if !ok {
			break
		}

		if response.Status == "error" {
			return result, response.Error
		}

		if response.Status == "ok" {
			reply := make(map[string]T, 1)
			if len(response.Data) > 0 {
				if err := serde.UnmarshalJson(response.Data, &reply); err != nil {
					return result, err
				}
			}

			for _, mv := range reply {
				result = mv
			}

			commandErr = nil
		}

	case <-time.After(timeout):
		commandErr = errorkinds.ErrMethodTimeout
	}

	return result, commandErr
}
