package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/swharr/storm-surge/internal/constant"
	errorConstant "github.com/swharr/storm-surge/internal/constant/errors"
	UCEntity "github.com/swharr/storm-surge/internal/entity/usecase"
)

// TransportError marks a network level failure talking to the Ocean API.
// Transport failures are retried once, validation rejections are not.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError marks a 4xx rejection from the Ocean API, e.g. an
// out-of-range capacity. Not transient, never retried.
type ValidationError struct {
	StatusCode int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(errorConstant.CapacityUpdateRejected, e.StatusCode)
}

type OceanCluster interface {
	GetClusterCapacity(ctx context.Context, clusterID string) (*UCEntity.ClusterCapacity, error)
	UpdateClusterCapacity(ctx context.Context, clusterID string, capacity *UCEntity.ClusterCapacity) error
}

type oceanCluster struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

func newOceanCluster(baseURL, apiToken string) OceanCluster {
	return &oceanCluster{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: constant.OceanAPITimeout,
		},
	}
}

type oceanCapacityResponse struct {
	Response struct {
		Capacity UCEntity.ClusterCapacity `json:"capacity"`
	} `json:"response"`
}

type oceanCapacityUpdate struct {
	Cluster struct {
		Capacity *UCEntity.ClusterCapacity `json:"capacity"`
	} `json:"cluster"`
}

func (o *oceanCluster) retryPolicy(ctx context.Context) backoff.BackOff {
	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(constant.OceanRetryInterval),
		constant.OceanMaxRetries,
	)
	return backoff.WithContext(policy, ctx)
}

func (o *oceanCluster) GetClusterCapacity(
	ctx context.Context,
	clusterID string,
) (*UCEntity.ClusterCapacity, error) {
	var capacity *UCEntity.ClusterCapacity
	operation := func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			fmt.Sprintf("%s/cluster/%s", o.baseURL, clusterID),
			nil,
		)
		if err != nil {
			return backoff.Permanent(err)
		}
		o.setHeaders(req)

		resp, err := o.httpClient.Do(req)
		if err != nil {
			return &TransportError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(&ValidationError{StatusCode: resp.StatusCode})
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &TransportError{
				Err: fmt.Errorf(errorConstant.CapacityUpdateRejected, resp.StatusCode),
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Err: err}
		}
		data := &oceanCapacityResponse{}
		if err := json.Unmarshal(body, data); err != nil {
			return backoff.Permanent(err)
		}
		capacity = &data.Response.Capacity
		return nil
	}

	if err := backoff.Retry(operation, o.retryPolicy(ctx)); err != nil {
		return nil, err
	}
	return capacity, nil
}

func (o *oceanCluster) UpdateClusterCapacity(
	ctx context.Context,
	clusterID string,
	capacity *UCEntity.ClusterCapacity,
) error {
	update := &oceanCapacityUpdate{}
	update.Cluster.Capacity = capacity
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPut,
			fmt.Sprintf("%s/cluster/%s", o.baseURL, clusterID),
			bytes.NewReader(payload),
		)
		if err != nil {
			return backoff.Permanent(err)
		}
		o.setHeaders(req)

		resp, err := o.httpClient.Do(req)
		if err != nil {
			return &TransportError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(&ValidationError{StatusCode: resp.StatusCode})
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &TransportError{
				Err: fmt.Errorf(errorConstant.CapacityUpdateRejected, resp.StatusCode),
			}
		}
		return nil
	}

	return backoff.Retry(operation, o.retryPolicy(ctx))
}

func (o *oceanCluster) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiToken))
	req.Header.Set("Content-Type", "application/json")
}
