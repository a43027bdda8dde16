package service

import "fmt"

const shopLogo = "https://suprema.qodeinteractive.com/wp-content/uploads/2016/01/logo-dark.png"

func verificationEmail(name, verifyURL string) string {
	return fmt.Sprintf(`<div>
  <div>
    <img src="%s" alt="" width="100" />
  </div>
  <p style="margin-bottom: 20px;">Hi %s,</p>
  <p>
    We're happy you signed up for Suprema. To start exploring shop and
    products, please confirm your email address.
  </p>
  <div>
    <a
      href="%s"
      style="padding: 12px 24px 12px 24px; background-color:#0cc3ce; color:white; text-decoration:none;"
    >
      Verify now
    </a>
  </div>
</div>`, shopLogo, name, verifyURL)
}

func resetEmail(name, resetURL string) string {
	return fmt.Sprintf(`<div>
  <div>
    <img src="%s" alt="" width="100" />
  </div>
  <p style="margin-bottom: 20px;">Hi %s,</p>
  <p style="margin-bottom: 10px;">Forgot your password?</p>
  <p style="margin-bottom: 20px;">
    We received a request to reset the password for your account
  </p>
  <p style="margin-bottom: 10px;">
    To reset your password, click on the button below:
  </p>
  <div>
    <a
      style="padding: 12px 24px 12px 24px; background-color:#0cc3ce; color:white; text-decoration:none;"
      href="%s"
    >
      Reset password
    </a>
  </div>
</div>`, shopLogo, name, resetURL)
}
