package shotcli

import (
	"encoding/json"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	if len(resp) == 0 || string(resp) == "null" {
		return &d, nil
	}
	return &d, json.Unmarshal(resp, &d)
}

// Start begins capturing with cfg. With resume set and an empty cfg the
// daemon reuses the last accepted configuration.
func (c *Client) Start(cfg shotlib.Configuration, resume bool) (*common.StartResponse, error) {
	return invoke[common.StartResponse](c, common.UPDATE_START, &common.StartParams{
		Configuration: cfg,
		Resume:        resume,
	})
}

func (c *Client) Update(cfg shotlib.Configuration) (*common.StartResponse, error) {
	return invoke[common.StartResponse](c, common.UPDATE_UPDATE, &cfg)
}

func (c *Client) Stop() (*common.StopResponse, error) {
	return invoke[common.StopResponse](c, common.UPDATE_STOP, nil)
}

func (c *Client) Status() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_STATUS, nil)
}

func (c *Client) History(limit int) (*common.HistoryResponse, error) {
	return invoke[common.HistoryResponse](c, common.UPDATE_HISTORY, &common.HistoryParams{Limit: limit})
}

func (c *Client) SetLocked(locked bool) (*common.LockResponse, error) {
	return invoke[common.LockResponse](c, common.UPDATE_LOCK, &common.LockParams{Locked: locked})
}

// Attach subscribes this connection to cycle events and returns the
// daemon's current status.
func (c *Client) Attach() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_ATTACH, nil)
}

func (c *Client) Detach() error {
	_, err := c.invoke(common.UPDATE_DETACH, nil)
	return err
}

func (c *Client) GetDaemonVersion() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}
