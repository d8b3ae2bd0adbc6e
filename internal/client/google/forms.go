package google

import (
	"context"
	"fmt"
	"sort"

	"google.golang.org/api/forms/v1"

	"saas-agent/internal/model"
)

func (c *Client) CreateForm(ctx context.Context, title string) (*model.Form, error) {
	f, err := c.forms.Forms.Create(&forms.Form{
		Info: &forms.Info{Title: title, DocumentTitle: title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("forms create: %w", err)
	}
	out := &model.Form{
		FormID:       f.FormId,
		Title:        "Untitled Form",
		ResponderURI: f.ResponderUri,
		RevisionID:   f.RevisionId,
		FormURI:      "https://docs.google.com/forms/d/" + f.FormId + "/edit",
	}
	if f.Info != nil {
		if f.Info.Title != "" {
			out.Title = f.Info.Title
		}
		out.DocumentTitle = f.Info.DocumentTitle
	}
	return out, nil
}

// FormResponses 所有回复，答案按问题 ID 排序
func (c *Client) FormResponses(ctx context.Context, formID string) ([]model.FormResponse, error) {
	res, err := c.forms.Forms.Responses.List(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("forms responses: %w", err)
	}
	out := make([]model.FormResponse, 0, len(res.Responses))
	for _, r := range res.Responses {
		fr := model.FormResponse{
			ResponseID:        r.ResponseId,
			CreateTime:        r.CreateTime,
			LastSubmittedTime: r.LastSubmittedTime,
			RespondentEmail:   r.RespondentEmail,
			Answers:           make([]model.FormAnswer, 0, len(r.Answers)),
		}
		qids := make([]string, 0, len(r.Answers))
		for qid := range r.Answers {
			qids = append(qids, qid)
		}
		sort.Strings(qids)
		for _, qid := range qids {
			ans := r.Answers[qid]
			texts := []string{}
			if ans.TextAnswers != nil {
				for _, ta := range ans.TextAnswers.Answers {
					texts = append(texts, ta.Value)
				}
			}
			fr.Answers = append(fr.Answers, model.FormAnswer{QuestionID: qid, TextAnswers: texts})
		}
		out = append(out, fr)
	}
	return out, nil
}
