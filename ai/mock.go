package ai

import "context"

// Mock is a canned client for tests and local dry runs. It never calls an
// external model.
type Mock struct {
	Response string
	Err      error
}

func (m Mock) Generate(_ context.Context, _, _ string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m Mock) GenerateJSON(_ context.Context, _, _ string, out any) error {
	if m.Err != nil {
		return m.Err
	}
	return unmarshalResponse(m.Response, out)
}
