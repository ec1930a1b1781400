package forecast

// Backend kinds. The recurrent backend trains LSTM/GRU networks; the linear
// backend fits an ordinary least squares model over the window and is used
// when recurrent training is disabled.
const (
	BackendRecurrent = "recurrent"
	BackendLinear    = "linear"
)

// Supported recurrent cell types.
const (
	ModelLSTM = "lstm"
	ModelGRU  = "gru"
)

// ModelTypes lists the model identifiers accepted by the API.
var ModelTypes = []string{ModelLSTM, ModelGRU}

// SequenceRegressor learns to predict the next value of a scaled series
// from a fixed-length window of preceding values.
type SequenceRegressor interface {
	Fit(windows [][]float64, targets []float64) error
	Predict(window []float64) (float64, error)
}

// Options carry the training hyperparameters shared by all models a backend
// creates.
type Options struct {
	Kind       string
	Lookback   int
	HiddenSize int
	Epochs     int
	BatchSize  int
}

// Backend creates regressors of the configured kind. The kind is resolved
// once at startup and reported to clients as backend availability.
type Backend struct {
	opts Options
}

func NewBackend(opts Options) *Backend {
	if opts.Kind == "" {
		opts.Kind = BackendRecurrent
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 7
	}
	if opts.HiddenSize <= 0 {
		opts.HiddenSize = 50
	}
	if opts.Epochs <= 0 {
		opts.Epochs = 50
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	return &Backend{opts: opts}
}

// Available reports whether recurrent training is enabled. When false, every
// model type falls back to the linear regressor.
func (b *Backend) Available() bool {
	return b.opts.Kind == BackendRecurrent
}

func (b *Backend) Lookback() int {
	return b.opts.Lookback
}

// New returns a fresh untrained regressor for one forecast run. Models are
// never shared across requests.
func (b *Backend) New(modelType string) SequenceRegressor {
	if !b.Available() {
		return newLinearRegressor(b.opts.Lookback)
	}
	return newRecurrentRegressor(modelType, b.opts)
}
