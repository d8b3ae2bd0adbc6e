package google

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/youtube/v3"

	"saas-agent/internal/model"
)

// SearchVideos 视频搜索，安全搜索为 moderate
func (c *Client) SearchVideos(ctx context.Context, query string, limit int) ([]model.Video, error) {
	res, err := c.youtube.Search.List([]string{"snippet"}).
		Q(query).
		MaxResults(int64(limit)).
		Type("video").
		SafeSearch("moderate").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	out := make([]model.Video, 0, len(res.Items))
	for _, it := range res.Items {
		v := model.Video{Title: "No Title"}
		if it.Id != nil {
			v.ID = it.Id.VideoId
			v.VideoURL = "https://www.youtube.com/watch?v=" + it.Id.VideoId
		}
		if sn := it.Snippet; sn != nil {
			if sn.Title != "" {
				v.Title = sn.Title
			}
			v.Description = sn.Description
			v.ChannelTitle = sn.ChannelTitle
			v.PublishTime = sn.PublishedAt
			v.ThumbnailURL = thumbnail(sn.Thumbnails)
		}
		out = append(out, v)
	}
	return out, nil
}

// ChannelStats channelID 为空时先按名称搜索频道；未找到返回空切片
func (c *Client) ChannelStats(ctx context.Context, channelName, channelID string) ([]model.ChannelStats, error) {
	if channelID == "" && channelName != "" {
		res, err := c.youtube.Search.List([]string{"snippet"}).
			Q(channelName).
			Type("channel").
			MaxResults(1).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("youtube channel search: %w", err)
		}
		if len(res.Items) > 0 && res.Items[0].Id != nil {
			channelID = res.Items[0].Id.ChannelId
		}
	}
	if channelID == "" {
		return []model.ChannelStats{}, nil
	}

	res, err := c.youtube.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube channels: %w", err)
	}
	out := make([]model.ChannelStats, 0, len(res.Items))
	for _, it := range res.Items {
		cs := model.ChannelStats{ID: it.Id, Title: "Unknown", SubscriberCount: "0", ViewCount: "0", VideoCount: "0"}
		if sn := it.Snippet; sn != nil {
			if sn.Title != "" {
				cs.Title = sn.Title
			}
			cs.Description = sn.Description
			cs.CustomURL = sn.CustomUrl
			cs.ThumbnailURL = thumbnail(sn.Thumbnails)
		}
		if st := it.Statistics; st != nil {
			cs.SubscriberCount = strconv.FormatUint(st.SubscriberCount, 10)
			cs.ViewCount = strconv.FormatUint(st.ViewCount, 10)
			cs.VideoCount = strconv.FormatUint(st.VideoCount, 10)
		}
		out = append(out, cs)
	}
	return out, nil
}

func thumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil && t.High.Url != "" {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}
