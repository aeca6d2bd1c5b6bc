package service

import (
	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
)

func questionToDTO(q *model.Question) dto.QuestionDTO {
	var out dto.QuestionDTO
	copier.Copy(&out, q)
	if q.Category != nil {
		out.CategoryName = &q.Category.Name
	}
	out.Items = make([]dto.QuestionItemDTO, 0, len(q.Items))
	for i := range q.Items {
		var item dto.QuestionItemDTO
		copier.Copy(&item, &q.Items[i])
		out.Items = append(out.Items, item)
	}
	return out
}

func answerToDTO(a *model.Answer) dto.AnswerDTO {
	out := dto.AnswerDTO{
		ID:             a.ID,
		QuestionID:     a.QuestionID,
		QuestionItemID: a.QuestionItemID,
		Value:          a.Value,
		SubmittedAt:    a.SubmittedAt,
	}
	if a.QuestionItem != nil {
		out.ItemText = &a.QuestionItem.Text
	}
	for i := range a.Files {
		f := &a.Files[i]
		out.Files = append(out.Files, dto.AnswerFileDTO{
			ID:          f.ID,
			FileID:      f.FileID,
			FileName:    f.File.FileName,
			ContentType: f.File.ContentType,
			Length:      f.File.Length,
		})
	}
	return out
}

func userToDTO(u *model.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:       u.ID,
		UserName: u.UserName,
		FullName: u.FullName,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
	if u.Role.ID != 0 {
		out.Role = u.Role.Name
	}
	return out
}
