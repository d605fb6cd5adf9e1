package commands

type Argument string

const (
	SocketArgument Argument = "--socket-path"
	FilterArgument Argument = "--filter"
)

// Values of FilterArgument.
const (
	FilterOutputs = "outputs"
	FilterInputs  = "inputs"
)

func (a Argument) String() string {
	return string(a)
}
